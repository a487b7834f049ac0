package rating

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nuam/calificaciones/internal/domain/audit"
	"github.com/nuam/calificaciones/internal/domain/identity"
	"github.com/nuam/calificaciones/internal/domain/rating"
	"github.com/nuam/calificaciones/internal/domain/refdata"
	"github.com/nuam/calificaciones/internal/domain/shared"
	"github.com/nuam/calificaciones/internal/infrastructure/event"
)

// Service implements the rating lifecycle: create, read, update, soft-delete,
// reassignment, and tax-event management. Every mutation leaves an audit
// trail; creation additionally announces the rating on the event bus.
type Service struct {
	ratings     rating.Repository
	users       identity.UserRepository
	instruments refdata.InstrumentRepository
	markets     refdata.MarketRepository
	states      refdata.StateRepository
	logs        audit.LogRepository
	records     audit.RecordRepository
	publisher   event.RatingPublisher
	logger      *zap.Logger
}

// NewService creates a new rating service
func NewService(
	ratings rating.Repository,
	users identity.UserRepository,
	instruments refdata.InstrumentRepository,
	markets refdata.MarketRepository,
	states refdata.StateRepository,
	logs audit.LogRepository,
	records audit.RecordRepository,
	publisher event.RatingPublisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		ratings:     ratings,
		users:       users,
		instruments: instruments,
		markets:     markets,
		states:      states,
		logs:        logs,
		records:     records,
		publisher:   publisher,
		logger:      logger,
	}
}

// Create validates the payload, persists the rating with its nested events
// and factors, appends the audit log entry and announces the creation.
// Ownership always goes to the caller regardless of the payload.
func (s *Service) Create(ctx context.Context, actor Actor, req CreateRatingRequest) (*RatingResponse, error) {
	issueDate, paymentDate, err := parseDates(req.IssueDate, req.PaymentDate)
	if err != nil {
		return nil, err
	}

	instrumentName, err := s.validateReferences(ctx, req.InstrumentID, req.MarketID, req.StateID)
	if err != nil {
		return nil, err
	}

	r, err := rating.NewRating(actor.ID, req.Amount, issueDate, paymentDate)
	if err != nil {
		return nil, err
	}
	r.SetReferences(req.InstrumentID, req.MarketID, req.StateID)
	r.Comments = req.Comments

	for _, eventReq := range req.TaxEvents {
		taxEvent, err := buildTaxEvent(actor.ID, eventReq)
		if err != nil {
			return nil, err
		}
		if err := r.AddEvent(*taxEvent); err != nil {
			return nil, err
		}
	}

	if err := s.ratings.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to save rating: %w", err)
	}

	s.appendLog(ctx, audit.ActionCreated,
		fmt.Sprintf("Calificación %s - Monto: %s", r.ID, r.Amount.String()),
		actor, r.ID)
	s.announceCreated(r, instrumentName, actor)

	resp := ToRatingResponse(r)
	return &resp, nil
}

// GetByID loads a rating visible to the caller. A foreign rating outside the
// caller's scope reads as absent rather than forbidden.
func (s *Service) GetByID(ctx context.Context, actor Actor, id uuid.UUID) (*RatingResponse, error) {
	r, err := s.ratings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Role.SeesAllRatings() && !r.IsOwnedBy(actor.ID) {
		return nil, shared.ErrNotFound
	}
	resp := ToRatingResponse(r)
	return &resp, nil
}

// List returns the ratings visible to the caller, filtered and paginated
func (s *Service) List(ctx context.Context, actor Actor, filter ListFilter) (*ListRatingsResponse, error) {
	query, err := buildListQuery(filter)
	if err != nil {
		return nil, err
	}

	items, total, err := s.ratings.FindAll(ctx, actor.Scope(), query)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}

	responses := make([]RatingResponse, len(items))
	for i := range items {
		responses[i] = ToRatingResponse(&items[i])
	}
	return &ListRatingsResponse{
		Items:    responses,
		Total:    total,
		Page:     query.Filter.Page,
		PageSize: query.Filter.PageSize,
	}, nil
}

// Update mutates the rating's own fields. Only the owner or a role that
// overrides ownership may update; ownership itself never changes here.
func (s *Service) Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateRatingRequest) (*RatingResponse, error) {
	r, err := s.ratings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.CanBeMutatedBy(actor.ID, actor.Role) {
		return nil, shared.ErrForbidden
	}

	amount := r.Amount
	if req.Amount != nil {
		amount = *req.Amount
	}
	issueDate := r.IssueDate
	if req.IssueDate != nil {
		if issueDate, err = time.Parse(dateLayout, *req.IssueDate); err != nil {
			return nil, shared.NewValidationError("fecha_emision", "Formato de fecha inválido, use AAAA-MM-DD")
		}
	}
	paymentDate := r.PaymentDate
	if req.PaymentDate != nil {
		if paymentDate, err = time.Parse(dateLayout, *req.PaymentDate); err != nil {
			return nil, shared.NewValidationError("fecha_pago", "Formato de fecha inválido, use AAAA-MM-DD")
		}
	}

	if err := r.Update(actor.ID, amount, issueDate, paymentDate); err != nil {
		return nil, err
	}

	instrumentID := r.InstrumentID
	if req.InstrumentID != nil {
		instrumentID = req.InstrumentID
	}
	marketID := r.MarketID
	if req.MarketID != nil {
		marketID = req.MarketID
	}
	stateID := r.StateID
	if req.StateID != nil {
		stateID = req.StateID
	}
	if _, err := s.validateReferences(ctx, instrumentID, marketID, stateID); err != nil {
		return nil, err
	}
	r.SetReferences(instrumentID, marketID, stateID)
	if req.Comments != nil {
		r.Comments = *req.Comments
	}

	if err := s.ratings.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to update rating: %w", err)
	}

	s.appendLog(ctx, audit.ActionUpdated,
		fmt.Sprintf("Calificación %s - Monto: %s", r.ID, r.Amount.String()),
		actor, r.ID)

	resp := ToRatingResponse(r)
	return &resp, nil
}

// SoftDelete deactivates the rating. The row and its children stay in place;
// deleting an already inactive rating is idempotent.
func (s *Service) SoftDelete(ctx context.Context, actor Actor, id uuid.UUID) error {
	r, err := s.ratings.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !r.CanBeMutatedBy(actor.ID, actor.Role) {
		return shared.ErrForbidden
	}

	r.SoftDelete(actor.ID)
	if err := s.ratings.Update(ctx, r); err != nil {
		return fmt.Errorf("failed to delete rating: %w", err)
	}

	s.appendLog(ctx, audit.ActionDeactivated,
		fmt.Sprintf("Calificación %s", r.ID), actor, r.ID)
	return nil
}

// Reassign transfers ownership to another user. Admin only: reassignment is
// never a side effect of a generic update.
func (s *Service) Reassign(ctx context.Context, actor Actor, id uuid.UUID, req ReassignRequest) (*RatingResponse, error) {
	if actor.Role != identity.RoleAdmin {
		return nil, shared.ErrForbidden
	}

	r, err := s.ratings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	newOwner, err := s.users.FindByID(ctx, req.NewOwnerID)
	if err != nil {
		return nil, shared.NewValidationError("nuevo_propietario_id", "El usuario no existe")
	}
	if !newOwner.IsActive {
		return nil, shared.NewValidationError("nuevo_propietario_id", "El usuario está inactivo")
	}

	r.Reassign(actor.ID, newOwner.ID)
	if err := s.ratings.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to reassign rating: %w", err)
	}

	s.appendLog(ctx, audit.ActionUpdated,
		fmt.Sprintf("Calificación %s - Reasignada a %s", r.ID, newOwner.Email),
		actor, r.ID)

	resp := ToRatingResponse(r)
	return &resp, nil
}

// CreateEvent adds a tax event to an existing rating and records the change
// in the auditoría trail against the parent.
func (s *Service) CreateEvent(ctx context.Context, actor Actor, ratingID uuid.UUID, req CreateEventRequest) (*TaxEventResponse, error) {
	r, err := s.ratings.FindByID(ctx, ratingID)
	if err != nil {
		return nil, err
	}
	if !r.CanBeMutatedBy(actor.ID, actor.Role) {
		return nil, shared.ErrForbidden
	}

	taxEvent, err := buildTaxEvent(actor.ID, req)
	if err != nil {
		return nil, err
	}
	taxEvent.RatingID = r.ID

	if err := s.ratings.SaveEvent(ctx, taxEvent); err != nil {
		return nil, fmt.Errorf("failed to save tax event: %w", err)
	}

	s.appendRecord(ctx, actor, r, taxEvent)

	resp := ToTaxEventResponse(taxEvent)
	return &resp, nil
}

// UpdateEvent mutates a tax event's fields, re-validating the event
// invariants against the resulting state.
func (s *Service) UpdateEvent(ctx context.Context, actor Actor, eventID uuid.UUID, req UpdateEventRequest) (*TaxEventResponse, error) {
	taxEvent, err := s.ratings.FindEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	r, err := s.ratings.FindByID(ctx, taxEvent.RatingID)
	if err != nil {
		return nil, err
	}
	if !r.CanBeMutatedBy(actor.ID, actor.Role) {
		return nil, shared.ErrForbidden
	}

	if req.Sequence != nil {
		taxEvent.Sequence = *req.Sequence
	}
	if req.CapitalEvent != nil {
		taxEvent.CapitalEvent = *req.CapitalEvent
	}
	if req.Year != nil {
		taxEvent.Year = *req.Year
	}
	if req.HistoricalValue != nil {
		taxEvent.HistoricalValue = req.HistoricalValue
	}
	if req.Description != nil {
		taxEvent.Description = *req.Description
	}
	if req.AmountBased != nil {
		taxEvent.AmountBased = *req.AmountBased
	}
	if err := taxEvent.Validate(); err != nil {
		return nil, err
	}
	taxEvent.Touch(actor.ID)

	if err := s.ratings.UpdateEvent(ctx, taxEvent); err != nil {
		return nil, fmt.Errorf("failed to update tax event: %w", err)
	}

	s.appendRecord(ctx, actor, r, taxEvent)

	resp := ToTaxEventResponse(taxEvent)
	return &resp, nil
}

// validateReferences checks that every set lookup reference exists and
// returns the instrument name for event publishing.
func (s *Service) validateReferences(ctx context.Context, instrumentID, marketID, stateID *int64) (string, error) {
	var instrumentName string
	if instrumentID != nil {
		instrument, err := s.instruments.FindByID(ctx, *instrumentID)
		if err != nil {
			return "", shared.NewValidationError("instrumento_id", "El instrumento no existe")
		}
		instrumentName = instrument.Name
	}
	if marketID != nil {
		if _, err := s.markets.FindByID(ctx, *marketID); err != nil {
			return "", shared.NewValidationError("mercado_id", "El mercado no existe")
		}
	}
	if stateID != nil {
		if _, err := s.states.FindByID(ctx, *stateID); err != nil {
			return "", shared.NewValidationError("estado_id", "El estado no existe")
		}
	}
	return instrumentName, nil
}

// appendLog writes a lifecycle log entry. Trail failures never fail the
// parent mutation.
func (s *Service) appendLog(ctx context.Context, action audit.Action, detail string, actor Actor, ratingID uuid.UUID) {
	userID := actor.ID
	entry, err := audit.NewLogEntry(action, detail, &userID, &ratingID)
	if err != nil {
		s.logger.Warn("failed to build audit log entry", zap.Error(err))
		return
	}
	if err := s.logs.Append(ctx, entry); err != nil {
		s.logger.Warn("failed to append audit log entry",
			zap.String("action", string(action)),
			zap.String("rating_id", ratingID.String()),
			zap.Error(err))
	}
}

// appendRecord writes an auditoría row for a tax-event change against the
// parent rating. When the actor is unknown the user falls back to the
// rating's last updater, then to its owner.
func (s *Service) appendRecord(ctx context.Context, actor Actor, r *rating.Rating, taxEvent *rating.TaxEvent) {
	userID := &actor.ID
	if actor.ID == uuid.Nil {
		userID = r.UpdatedBy
		if userID == nil {
			userID = r.OwnerID
		}
	}
	record := audit.NewRecord(
		"Actualización (Tributaria)",
		"Éxito",
		fmt.Sprintf("Evento %s - Secuencia %d", taxEvent.ID, taxEvent.Sequence),
		userID, &r.ID)
	if err := s.records.Append(ctx, record); err != nil {
		s.logger.Warn("failed to append auditoria record",
			zap.String("rating_id", r.ID.String()),
			zap.Error(err))
	}
}

// announceCreated publishes the creation event best-effort. Broker failures
// are logged and never surface to the caller.
func (s *Service) announceCreated(r *rating.Rating, instrumentName string, actor Actor) {
	evt := event.NewRatingCreatedEvent(r.ID.String(), instrumentName, r.Amount.String(), actor.Email)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.publisher.PublishRatingCreated(ctx, evt); err != nil {
			s.logger.Warn("failed to publish rating created event",
				zap.String("rating_id", r.ID.String()),
				zap.Error(err))
		}
	}()
}

func parseDates(issue, payment string) (time.Time, time.Time, error) {
	issueDate, err := time.Parse(dateLayout, issue)
	if err != nil {
		return time.Time{}, time.Time{}, shared.NewValidationError("fecha_emision", "Formato de fecha inválido, use AAAA-MM-DD")
	}
	paymentDate, err := time.Parse(dateLayout, payment)
	if err != nil {
		return time.Time{}, time.Time{}, shared.NewValidationError("fecha_pago", "Formato de fecha inválido, use AAAA-MM-DD")
	}
	return issueDate, paymentDate, nil
}

func buildTaxEvent(actor uuid.UUID, req CreateTaxEventRequest) (*rating.TaxEvent, error) {
	taxEvent, err := rating.NewTaxEvent(actor, req.Sequence, req.CapitalEvent, req.Year)
	if err != nil {
		return nil, err
	}
	taxEvent.Description = req.Description
	taxEvent.AmountBased = req.AmountBased
	if req.HistoricalValue != nil {
		if err := taxEvent.SetHistoricalValue(*req.HistoricalValue); err != nil {
			return nil, err
		}
	}
	for _, factorReq := range req.Factors {
		taxEvent.AddFactor(rating.NewTaxFactor(factorReq.Code, factorReq.Description, factorReq.Value))
	}
	return taxEvent, nil
}

func buildListQuery(filter ListFilter) (rating.ListQuery, error) {
	query := rating.ListQuery{
		OwnerEmail:   filter.OwnerEmail,
		Year:         filter.Year,
		StateID:      filter.StateID,
		MarketID:     filter.MarketID,
		InstrumentID: filter.InstrumentID,
		OnlyOwn:      filter.OnlyOwn,
		Filter:       shared.DefaultFilter(),
	}
	if filter.ID != "" {
		id, err := uuid.Parse(filter.ID)
		if err != nil {
			return rating.ListQuery{}, shared.NewValidationError("id", "Identificador inválido")
		}
		query.ID = &id
	}
	if filter.IssuedFrom != "" {
		from, err := time.Parse(dateLayout, filter.IssuedFrom)
		if err != nil {
			return rating.ListQuery{}, shared.NewValidationError("fecha_desde", "Formato de fecha inválido, use AAAA-MM-DD")
		}
		query.IssuedFrom = &from
	}
	if filter.IssuedUntil != "" {
		until, err := time.Parse(dateLayout, filter.IssuedUntil)
		if err != nil {
			return rating.ListQuery{}, shared.NewValidationError("fecha_hasta", "Formato de fecha inválido, use AAAA-MM-DD")
		}
		query.IssuedUntil = &until
	}
	if filter.Page > 0 {
		query.Filter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		query.Filter.PageSize = filter.PageSize
	}
	query.Filter.SortBy = filter.SortBy
	query.Filter.SortDesc = filter.SortDesc
	return query, nil
}
