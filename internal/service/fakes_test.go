package service

import (
	"context"
	"fmt"

	"procurement/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository fakes. Services only see the repository interfaces,
// so the workflow logic can be exercised without a database.

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*model.User)}
	for _, u := range users {
		r.users[u.ID.String()] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID.String()] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) List(ctx context.Context, page, limit int) ([]model.User, int64, error) {
	var out []model.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	r.users[user.ID.String()] = user
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	delete(r.users, id)
	return nil
}

type fakeRequestRepo struct {
	requests map[uuid.UUID]*model.PurchaseRequest
	seq      int
	updates  int
}

func newFakeRequestRepo(requests ...*model.PurchaseRequest) *fakeRequestRepo {
	r := &fakeRequestRepo{requests: make(map[uuid.UUID]*model.PurchaseRequest)}
	for _, req := range requests {
		r.requests[req.ID] = req
	}
	return r
}

func (r *fakeRequestRepo) Create(ctx context.Context, req *model.PurchaseRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	r.requests[req.ID] = req
	return nil
}

func (r *fakeRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.PurchaseRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *req
	return &copied, nil
}

func (r *fakeRequestRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.PurchaseRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeRequestRepo) GetByPRNo(ctx context.Context, prNo string) (*model.PurchaseRequest, error) {
	for _, req := range r.requests {
		if req.PRNo == prNo {
			copied := *req
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRequestRepo) List(ctx context.Context, status string, page, limit int) ([]model.PurchaseRequest, int64, error) {
	var out []model.PurchaseRequest
	for _, req := range r.requests {
		if status == "" || req.Status == status {
			out = append(out, *req)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeRequestRepo) Update(ctx context.Context, req *model.PurchaseRequest) error {
	copied := *req
	r.requests[req.ID] = &copied
	r.updates++
	return nil
}

func (r *fakeRequestRepo) NextPRNo(ctx context.Context) (string, error) {
	r.seq++
	return fmt.Sprintf("PR-20250101-%05d", r.seq), nil
}

func (r *fakeRequestRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, req := range r.requests {
		counts[req.Status]++
	}
	return counts, nil
}

type fakeOrderRepo struct {
	orders  map[uuid.UUID]*model.PurchaseOrder
	seq     int
	updates int
}

func newFakeOrderRepo(orders ...*model.PurchaseOrder) *fakeOrderRepo {
	r := &fakeOrderRepo{orders: make(map[uuid.UUID]*model.PurchaseOrder)}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *model.PurchaseOrder) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *o
	return &copied, nil
}

func (r *fakeOrderRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeOrderRepo) ExistsByPRNo(ctx context.Context, prNo string) (bool, error) {
	for _, o := range r.orders {
		if o.PRNo == prNo {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeOrderRepo) List(ctx context.Context, status string, page, limit int) ([]model.PurchaseOrder, int64, error) {
	var out []model.PurchaseOrder
	for _, o := range r.orders {
		if status == "" || o.Status == status {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) Update(ctx context.Context, order *model.PurchaseOrder) error {
	copied := *order
	r.orders[order.ID] = &copied
	r.updates++
	return nil
}

func (r *fakeOrderRepo) NextPONo(ctx context.Context) (string, error) {
	r.seq++
	return fmt.Sprintf("PO-20250101-%05d", r.seq), nil
}

func (r *fakeOrderRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, o := range r.orders {
		counts[o.Status]++
	}
	return counts, nil
}

type fakeQuotationRepo struct {
	quotations map[uuid.UUID]*model.Quotation
	suppliers  []model.SupplierQuotation
}

func newFakeQuotationRepo() *fakeQuotationRepo {
	return &fakeQuotationRepo{quotations: make(map[uuid.UUID]*model.Quotation)}
}

func (r *fakeQuotationRepo) Create(ctx context.Context, quotation *model.Quotation) error {
	if quotation.ID == uuid.Nil {
		quotation.ID = uuid.New()
	}
	r.quotations[quotation.ID] = quotation
	return nil
}

func (r *fakeQuotationRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Quotation, error) {
	q, ok := r.quotations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return q, nil
}

func (r *fakeQuotationRepo) List(ctx context.Context, page, limit int) ([]model.Quotation, int64, error) {
	var out []model.Quotation
	for _, q := range r.quotations {
		out = append(out, *q)
	}
	return out, int64(len(out)), nil
}

func (r *fakeQuotationRepo) CreateSupplierQuotation(ctx context.Context, sq *model.SupplierQuotation) error {
	if sq.ID == uuid.Nil {
		sq.ID = uuid.New()
	}
	r.suppliers = append(r.suppliers, *sq)
	return nil
}

func (r *fakeQuotationRepo) ListSupplierQuotations(ctx context.Context, quotationID uuid.UUID) ([]model.SupplierQuotation, error) {
	var out []model.SupplierQuotation
	for _, sq := range r.suppliers {
		if sq.QuotationID == quotationID {
			out = append(out, sq)
		}
	}
	return out, nil
}

type fakeAbstractRepo struct {
	abstracts map[uuid.UUID]*model.Abstract
}

func newFakeAbstractRepo() *fakeAbstractRepo {
	return &fakeAbstractRepo{abstracts: make(map[uuid.UUID]*model.Abstract)}
}

func (r *fakeAbstractRepo) Create(ctx context.Context, abstract *model.Abstract) error {
	if abstract.ID == uuid.Nil {
		abstract.ID = uuid.New()
	}
	r.abstracts[abstract.ID] = abstract
	return nil
}

func (r *fakeAbstractRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Abstract, error) {
	a, ok := r.abstracts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (r *fakeAbstractRepo) List(ctx context.Context, page, limit int) ([]model.Abstract, int64, error) {
	var out []model.Abstract
	for _, a := range r.abstracts {
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

type fakeAuditRepo struct {
	entries []model.AuditLog
}

func (r *fakeAuditRepo) Create(ctx context.Context, entry *model.AuditLog) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) List(ctx context.Context, action string, page, limit int) ([]model.AuditLog, int64, error) {
	var out []model.AuditLog
	for _, e := range r.entries {
		if action == "" || e.Action == action {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

type fakeTokenRepo struct {
	tokens map[string]*model.RefreshToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]*model.RefreshToken)}
}

func (r *fakeTokenRepo) Create(ctx context.Context, token *model.RefreshToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	r.tokens[token.Token] = token
	return nil
}

func (r *fakeTokenRepo) GetByToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	t, ok := r.tokens[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *fakeTokenRepo) Delete(ctx context.Context, token string) error {
	delete(r.tokens, token)
	return nil
}

func (r *fakeTokenRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	for k, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, k)
		}
	}
	return nil
}

// fakeTx runs the callback directly; rollback semantics are not simulated
type fakeTx struct{}

func (fakeTx) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type fakeNotifier struct {
	events [][]byte
}

func (n *fakeNotifier) Notify(event []byte) {
	n.events = append(n.events, event)
}

// newTestUser builds a user with the given role for principal resolution
func newTestUser(role, fullName string) *model.User {
	return &model.User{
		ID:          uuid.New(),
		Username:    fullName,
		Email:       fullName + "@example.com",
		Role:        role,
		FullName:    fullName,
		Title:       "Title of " + fullName,
		Designation: "Designation of " + fullName,
	}
}
