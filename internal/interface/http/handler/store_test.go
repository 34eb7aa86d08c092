package handler

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/ignatzorin/skillbridge-backend/internal/domain/entity"
	"github.com/ignatzorin/skillbridge-backend/internal/domain/repository"
	"github.com/ignatzorin/skillbridge-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillbridge-backend/internal/infrastructure/gateway"
	"github.com/ignatzorin/skillbridge-backend/internal/pkg/apperror"
)

const testGatewaySecret = "test_secret"

// memStore хранит данные в памяти для тестов обработчиков.
type memStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*entity.User
	requests map[uuid.UUID]*entity.Request
	txs      map[string]*entity.Transaction
	outbox   []entity.SettlementOutboxEntry
	orders   int
	gwErr    error
}

func newMemStore(users ...*entity.User) *memStore {
	s := &memStore{
		users:    make(map[uuid.UUID]*entity.User),
		requests: make(map[uuid.UUID]*entity.Request),
		txs:      make(map[string]*entity.Transaction),
	}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func copyUser(u *entity.User) *entity.User {
	cp := *u
	cp.Skills = append([]string(nil), u.Skills...)
	cp.Followers = append([]uuid.UUID(nil), u.Followers...)
	cp.Following = append([]uuid.UUID(nil), u.Following...)
	return &cp
}

// users

func (s *memStore) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperror.ErrUserNotFound
	}
	return copyUser(u), nil
}

func (s *memStore) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[uuid.UUID]*entity.User, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out[id] = copyUser(u)
		}
	}
	return out, nil
}

// follow graph

func (s *memStore) UpdatePair(ctx context.Context, actorID, targetID uuid.UUID, fn func(actor, target *entity.User) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.users[actorID]
	if !ok {
		return apperror.ErrUserNotFound
	}
	t, ok := s.users[targetID]
	if !ok {
		return apperror.ErrUserNotFound
	}
	actor, target := copyUser(a), copyUser(t)
	if err := fn(actor, target); err != nil {
		return err
	}
	a.Following, t.Followers = actor.Following, target.Followers
	return nil
}

func (s *memStore) Profiles(ctx context.Context, ids []uuid.UUID) ([]entity.FollowProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.FollowProfile, 0, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, entity.FollowProfile{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
		}
	}
	return out, nil
}

// requests

type requestStore struct{ *memStore }

func (r requestStore) Create(ctx context.Context, req *entity.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.requests {
		if other.Status == valueobject.RequestStatusPending && other.Kind() == req.Kind() &&
			other.InitiatorID == req.InitiatorID && other.CounterpartyID == req.CounterpartyID {
			return apperror.ErrDuplicatePending
		}
	}
	cp := *req
	r.requests[req.ID] = &cp
	return nil
}

func (r requestStore) FindByID(ctx context.Context, id uuid.UUID) (*entity.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, apperror.ErrRequestNotFound
	}
	cp := *req
	return &cp, nil
}

func (r requestStore) ExistsPending(ctx context.Context, initiatorID, counterpartyID uuid.UUID, kind valueobject.RequestKind) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if req.Status == valueobject.RequestStatusPending && req.Kind() == kind &&
			req.InitiatorID == initiatorID && req.CounterpartyID == counterpartyID {
			return true, nil
		}
	}
	return false, nil
}

func (r requestStore) Transition(ctx context.Context, id uuid.UUID, from, to valueobject.RequestStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.transitionLocked(id, from, to)
}

func (r requestStore) transitionLocked(id uuid.UUID, from, to valueobject.RequestStatus) error {
	req, ok := r.requests[id]
	if !ok {
		return apperror.ErrRequestNotFound
	}
	if req.Status != from {
		return entity.InvalidTransition(from, to)
	}
	req.Status = to
	return nil
}

func (r requestStore) AcceptSkillExchange(ctx context.Context, req *entity.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.transitionLocked(req.ID, valueobject.RequestStatusPending, valueobject.RequestStatusAccepted); err != nil {
		return err
	}
	terms := req.Terms.(entity.SkillExchangeTerms)
	merge := func(id uuid.UUID, skills []string) {
		u := r.users[id]
		u.Skills = entity.NormalizeSkills(append(u.Skills, skills...))
	}
	merge(req.CounterpartyID, terms.OfferedSkills)
	merge(req.InitiatorID, terms.RequestedSkills)
	return nil
}

func (r requestStore) List(ctx context.Context, filter repository.RequestFilter) ([]*entity.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Request
	for _, req := range r.requests {
		if req.Kind() != filter.Kind {
			continue
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		switch filter.Direction {
		case valueobject.DirectionSent:
			if req.InitiatorID != filter.OwnerID {
				continue
			}
		case valueobject.DirectionReceived:
			if req.CounterpartyID != filter.OwnerID {
				continue
			}
		default:
			if !req.IsParty(filter.OwnerID) {
				continue
			}
		}
		cp := *req
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// transactions

type txStore struct{ *memStore }

func (s txStore) Create(ctx context.Context, tx *entity.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *tx
	s.txs[tx.GatewayOrderID] = &cp
	return nil
}

func (s txStore) FindByGatewayOrderID(ctx context.Context, orderID string) (*entity.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.txs[orderID]
	if !ok {
		return nil, apperror.ErrTransactionNotFound
	}
	cp := *tx
	return &cp, nil
}

func (s txStore) Confirm(ctx context.Context, orderID, paymentID string) (*repository.ConfirmResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.txs[orderID]
	if !ok {
		return nil, apperror.ErrTransactionNotFound
	}
	changed, err := tx.MarkSucceeded(paymentID)
	if err != nil {
		return nil, err
	}
	res := &repository.ConfirmResult{Transaction: tx, Replayed: !changed}
	if changed && tx.Linked != nil {
		req := s.requests[tx.Linked.ID]
		if req != nil && req.Status == valueobject.RequestStatusAccepted && !req.Paid {
			req.Paid = true
			id := tx.ID
			req.TransactionID = &id
		} else {
			s.outbox = append(s.outbox, entity.SettlementOutboxEntry{ID: uuid.New(), TransactionID: tx.ID, RequestID: tx.Linked.ID})
			res.Outboxed = true
		}
	}
	cp := *tx
	res.Transaction = &cp
	return res, nil
}

func (s txStore) UpdateStatus(ctx context.Context, id uuid.UUID, from, to valueobject.TransactionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range s.txs {
		if tx.ID != id {
			continue
		}
		if tx.Status != from {
			return apperror.New(apperror.ErrCodeInvalidTransition, "платёж уже завершён")
		}
		tx.Status = to
		return nil
	}
	return apperror.ErrTransactionNotFound
}

func (s txStore) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Transaction
	for _, tx := range s.txs {
		if tx.Involves(userID) {
			cp := *tx
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return []*entity.Transaction{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// gateway

type fakeGateway struct{ *memStore }

func (g fakeGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*repository.GatewayOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.gwErr != nil {
		return nil, g.gwErr
	}
	g.orders++
	return &repository.GatewayOrder{
		ID:          fmt.Sprintf("order_%d", g.orders),
		AmountMinor: amountMinor,
		Currency:    currency,
		Receipt:     receipt,
		Status:      "created",
	}, nil
}

func (g fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return gateway.Verify(testGatewaySecret, orderID, paymentID, signature)
}
