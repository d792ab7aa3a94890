package onboarding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gp3-app/calgo/internal/agent"
	"github.com/gp3-app/calgo/internal/database"
	"github.com/gp3-app/calgo/internal/models"
	"gorm.io/gorm"
)

// introMessage opens every new session before the first audit runs.
const introMessage = "Welcome to your calibration assistant. I can audit your " +
	"equipment registry, point out missing calibration data, and answer " +
	"questions about your fleet. Ready when you are."

// Service persists onboarding sessions and routes their conversation
// turns through the agent gateway.
type Service struct {
	db *database.DB
	gw *agent.Gateway
}

// NewService creates an onboarding service
func NewService(db *database.DB, gw *agent.Gateway) *Service {
	return &Service{db: db, gw: gw}
}

// GetOrCreate loads the operator's session for the tenant, creating a
// fresh introduction-state session on first contact. Completed sessions
// are returned as-is and never restarted.
func (s *Service) GetOrCreate(companyID, userID string) (*models.OnboardingSession, error) {
	var session models.OnboardingSession
	err := s.db.Where("company_id = ? AND user_id = ?", companyID, userID).
		First(&session).Error
	if err == nil {
		return &session, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load onboarding session: %w", err)
	}

	transcript, err := AppendEntry(nil, RoleAgent, introMessage, time.Now())
	if err != nil {
		return nil, err
	}
	session = models.OnboardingSession{
		CompanyID:  companyID,
		UserID:     userID,
		State:      string(StateIntroduction),
		Transcript: transcript,
	}
	if err := s.db.Create(&session).Error; err != nil {
		return nil, fmt.Errorf("failed to create onboarding session: %w", err)
	}
	return &session, nil
}

// BeginAudit moves the session out of introduction, runs the one
// structured registry audit, records its answer in the transcript, and
// lands in gap review. A gateway failure still advances the session;
// the operator just sees the apology instead of the counts.
func (s *Service) BeginAudit(ctx context.Context, companyID, userID string) (*models.OnboardingSession, error) {
	session, err := s.GetOrCreate(companyID, userID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(State(session.State), StateAuditRunning) {
		return nil, fmt.Errorf("invalid onboarding transition: %s -> %s", session.State, StateAuditRunning)
	}

	answer := s.gw.Audit(companyID)
	transcript, err := AppendEntry(session.Transcript, RoleAgent, answer, time.Now())
	if err != nil {
		return nil, err
	}
	session.Transcript = transcript
	session.State = string(StateGapReview)
	if err := s.db.Save(session).Error; err != nil {
		return nil, fmt.Errorf("failed to save onboarding session: %w", err)
	}
	return session, nil
}

// Apply handles an operator event (fill_gaps, defer, exit) and persists
// the resulting state. Reaching complete stamps CompletedAt.
func (s *Service) Apply(companyID, userID string, event Event) (*models.OnboardingSession, error) {
	session, err := s.GetOrCreate(companyID, userID)
	if err != nil {
		return nil, err
	}
	to, err := Resolve(State(session.State), event)
	if err != nil {
		return nil, err
	}
	session.State = string(to)
	if to == StateComplete {
		now := time.Now().UTC()
		session.CompletedAt = &now
	}
	if err := s.db.Save(session).Error; err != nil {
		return nil, fmt.Errorf("failed to save onboarding session: %w", err)
	}
	return session, nil
}

// Chat records one operator question and the agent's answer on a
// session in the chat state.
func (s *Service) Chat(ctx context.Context, companyID, companyName, userID, question string) (*models.OnboardingSession, string, error) {
	session, err := s.GetOrCreate(companyID, userID)
	if err != nil {
		return nil, "", err
	}
	if State(session.State) != StateChat {
		return nil, "", fmt.Errorf("onboarding chat not active in state %s", session.State)
	}

	transcript, err := AppendEntry(session.Transcript, RoleOperator, question, time.Now())
	if err != nil {
		return nil, "", err
	}
	answer := s.gw.Ask(ctx, companyID, companyName, question)
	transcript, err = AppendEntry(transcript, RoleAgent, answer, time.Now())
	if err != nil {
		return nil, "", err
	}
	session.Transcript = transcript
	if err := s.db.Save(session).Error; err != nil {
		return nil, "", fmt.Errorf("failed to save onboarding session: %w", err)
	}
	return session, answer, nil
}
