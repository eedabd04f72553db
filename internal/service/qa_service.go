package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"catalog-console-be/internal/dto"
	"catalog-console-be/internal/entity"
	"catalog-console-be/internal/pkg/logger"
	"catalog-console-be/internal/repository/memory"
	"catalog-console-be/internal/repository/specification"
	"catalog-console-be/internal/repository/unitofwork"
	"catalog-console-be/pkg/events"
	pktNats "catalog-console-be/pkg/nats"
	"catalog-console-be/pkg/qastream"
	"catalog-console-be/pkg/store"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("qa session not found")

type IQaService interface {
	EnsureSession(ctx context.Context, userId uuid.UUID) (*dto.QaSessionResponse, error)
	AskQuickAnswer(ctx context.Context, userId uuid.UUID, req *dto.QaAskRequest) (<-chan qastream.Update, error)
	AskChat(ctx context.Context, userId uuid.UUID, req *dto.QaAskRequest) (<-chan qastream.Update, error)
	Stop(userId uuid.UUID)
	ResetSession(userId uuid.UUID)
	Feedback(ctx context.Context, userId uuid.UUID, req *dto.QaFeedbackRequest) (*dto.QaFeedbackResponse, error)
	History(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.QaHistoryResponse, error)
}

type qaService struct {
	uowFactory     unitofwork.RepositoryFactory
	ctrlRepo       *memory.QaControllerRepository
	engine         qastream.Engine
	refresher      qastream.TokenRefresher
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewQaService(
	uowFactory unitofwork.RepositoryFactory,
	ctrlRepo *memory.QaControllerRepository,
	engine qastream.Engine,
	refresher qastream.TokenRefresher,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IQaService {
	return &qaService{
		uowFactory:     uowFactory,
		ctrlRepo:       ctrlRepo,
		engine:         engine,
		refresher:      refresher,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *qaService) controllerFor(userId uuid.UUID) *qastream.Controller {
	key := userId.String()
	if ctrl, found := s.ctrlRepo.Get(key); found {
		return ctrl
	}
	ctrl := qastream.NewController(s.engine, s.refresher, s.logger)
	s.ctrlRepo.Save(key, ctrl)
	return ctrl
}

func (s *qaService) EnsureSession(ctx context.Context, userId uuid.UUID) (*dto.QaSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.QaSessionRepository().FindOne(ctx,
		specification.ByUserId{UserId: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return sessionToDto(existing), nil
	}

	session := &entity.QaChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     "Catalog QA",
		CreatedAt: time.Now(),
	}
	if err := uow.QaSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}
	return sessionToDto(session), nil
}

func (s *qaService) AskQuickAnswer(ctx context.Context, userId uuid.UUID, req *dto.QaAskRequest) (<-chan qastream.Update, error) {
	ctrl := s.controllerFor(userId)
	// Quick answer is stateless: nothing is persisted for it.
	return ctrl.AskQuickAnswer(ctx, req.Query, req.AssetType)
}

func (s *qaService) AskChat(ctx context.Context, userId uuid.UUID, req *dto.QaAskRequest) (<-chan qastream.Update, error) {
	ctrl := s.controllerFor(userId)

	updates, err := ctrl.AskChat(ctx, req.Query, req.AssetType)
	if err != nil {
		return nil, err
	}

	// Forward updates; once the turn ends, persist its final state.
	out := make(chan qastream.Update, 8)
	go func() {
		defer close(out)
		for u := range updates {
			out <- u
		}
		s.persistLastTurn(userId, ctrl)
	}()
	return out, nil
}

func (s *qaService) Stop(userId uuid.UUID) {
	if ctrl, found := s.ctrlRepo.Get(userId.String()); found {
		ctrl.Stop()
	}
}

func (s *qaService) ResetSession(userId uuid.UUID) {
	if ctrl, found := s.ctrlRepo.Get(userId.String()); found {
		ctrl.ResetSession()
	}
}

func (s *qaService) Feedback(ctx context.Context, userId uuid.UUID, req *dto.QaFeedbackRequest) (*dto.QaFeedbackResponse, error) {
	ctrl, found := s.ctrlRepo.Get(userId.String())
	if !found {
		return nil, qastream.ErrNoSession
	}

	action := feedbackAction(req.Like)
	detail, err := ctrl.Feedback(ctx, req.QaId, action)
	if err != nil {
		return nil, err
	}

	// Mirror the verdict onto the stored turn.
	uow := s.uowFactory.NewUnitOfWork(ctx)
	turn, err := uow.QaTurnRepository().FindOne(ctx, specification.ByQaId{QaId: req.QaId})
	if err == nil && turn != nil {
		turn.Like = req.Like
		if err := uow.QaTurnRepository().Update(ctx, turn); err != nil {
			s.logger.Warn("QaService", "Failed to persist feedback", map[string]interface{}{"qa_id": req.QaId, "error": err.Error()})
		}
	}

	if s.eventPublisher != nil {
		event := events.BaseEvent{
			Type: events.TypeQaFeedback,
			Data: map[string]interface{}{
				"user_id": userId,
				"qa_id":   req.QaId,
				"like":    req.Like,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("QaService", "Failed to publish feedback event", map[string]interface{}{"error": err.Error()})
		}
	}

	return &dto.QaFeedbackResponse{
		QaId:         req.QaId,
		Like:         req.Like,
		DetailPrompt: detail,
	}, nil
}

func (s *qaService) History(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.QaHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.QaSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.ByUserId{UserId: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	turns, err := uow.QaTurnRepository().FindAll(ctx,
		specification.BySessionId{SessionId: sessionId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	turnIds := make([]uuid.UUID, 0, len(turns))
	for _, t := range turns {
		turnIds = append(turnIds, t.Id)
	}
	citations, err := uow.QaCitationRepository().FindByTurnIds(ctx, turnIds)
	if err != nil {
		return nil, err
	}
	citesByTurn := make(map[uuid.UUID][]dto.QaCitationResponse)
	for _, c := range citations {
		citesByTurn[c.TurnId] = append(citesByTurn[c.TurnId], dto.QaCitationResponse{
			AssetId: c.AssetId,
			Title:   c.Title,
		})
	}

	resp := &dto.QaHistoryResponse{
		SessionId: sessionId,
		Turns:     make([]dto.QaTurnResponse, 0, len(turns)),
	}
	for _, t := range turns {
		resp.Turns = append(resp.Turns, dto.QaTurnResponse{
			Id:        t.Id,
			QaId:      t.QaId,
			Query:     t.Query,
			Answer:    t.AnswerText,
			Explain:   t.Explain,
			Chart:     t.Chart,
			Status:    t.Status,
			Like:      t.Like,
			Stopped:   t.Stopped,
			Citations: citesByTurn[t.Id],
			CreatedAt: t.CreatedAt,
		})
	}
	return resp, nil
}

// persistLastTurn writes the final state of the newest turn. Runs off the
// request path once the stream has ended.
func (s *qaService) persistLastTurn(userId uuid.UUID, ctrl *qastream.Controller) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, turns := ctrl.Snapshot()
	if len(turns) == 0 {
		return
	}
	last := turns[len(turns)-1]

	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.QaSessionRepository().FindOne(ctx,
		specification.ByUserId{UserId: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		s.logger.Error("QaService", "Failed to load session for turn persistence", map[string]interface{}{"error": err.Error()})
		return
	}
	if session == nil {
		session = &entity.QaChatSession{
			Id:        uuid.New(),
			UserId:    userId,
			Title:     firstWords(last.Query, 8),
			CreatedAt: time.Now(),
		}
		if err := uow.QaSessionRepository().Create(ctx, session); err != nil {
			s.logger.Error("QaService", "Failed to create session row", map[string]interface{}{"error": err.Error()})
			return
		}
	}

	if engineId := ctrl.SessionID(); engineId != "" && session.EngineSessionId != engineId {
		session.EngineSessionId = engineId
		if err := uow.QaSessionRepository().Update(ctx, session); err != nil {
			s.logger.Warn("QaService", "Failed to record engine session id", map[string]interface{}{"error": err.Error()})
		}
	}

	chart := ""
	if last.Chart != nil {
		if raw, err := json.Marshal(last.Chart); err == nil {
			chart = string(raw)
		}
	}

	turn := &entity.QaChatTurn{
		Id:         uuid.New(),
		SessionId:  session.Id,
		QaId:       last.QaID,
		Query:      last.Query,
		AnswerText: strings.Join(last.Text, ""),
		Explain:    last.Explain,
		Chart:      chart,
		Status:     string(last.Status),
		Like:       feedbackValue(last.Like),
		Stopped:    last.Stopped,
		CreatedAt:  time.Now(),
	}
	if err := uow.QaTurnRepository().Create(ctx, turn); err != nil {
		s.logger.Error("QaService", "Failed to persist turn", map[string]interface{}{"error": err.Error()})
		return
	}

	if len(last.Cites) > 0 {
		citations := make([]*entity.QaCitation, 0, len(last.Cites))
		for _, c := range last.Cites {
			citations = append(citations, &entity.QaCitation{
				Id:      uuid.New(),
				TurnId:  turn.Id,
				AssetId: c.AssetID,
				Title:   c.Title,
			})
		}
		if err := uow.QaCitationRepository().CreateBatch(ctx, citations); err != nil {
			s.logger.Warn("QaService", "Failed to persist citations", map[string]interface{}{"error": err.Error()})
		}
	}
}

func sessionToDto(s *entity.QaChatSession) *dto.QaSessionResponse {
	return &dto.QaSessionResponse{
		SessionId:       s.Id,
		EngineSessionId: s.EngineSessionId,
		Title:           s.Title,
		CreatedAt:       s.CreatedAt,
	}
}

func feedbackAction(like int) string {
	switch {
	case like > 0:
		return store.FeedbackLike
	case like < 0:
		return store.FeedbackDislike
	default:
		return store.FeedbackNeutrality
	}
}

func feedbackValue(action string) int {
	switch action {
	case store.FeedbackLike:
		return 1
	case store.FeedbackDislike:
		return -1
	default:
		return 0
	}
}

func firstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
