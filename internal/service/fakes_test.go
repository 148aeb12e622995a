package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// In-memory repository fakes. They mirror the Postgres contracts the
// services depend on: pgx.ErrNoRows for missing rows and pgconn.PgError
// 23505 for unique-index violations.

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

type fakeUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return uniqueViolation("users_email_key")
		}
		if existing.Username == user.Username {
			return uniqueViolation("users_username_key")
		}
	}
	r.nextID++
	user.ID = fmt.Sprintf("user-%d", r.nextID)
	now := time.Now()
	user.JoinedAt = now
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context, limit, offset int) ([]domain.User, error) {
	ids := make([]string, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var result []domain.User
	for i, id := range ids {
		if i < offset {
			continue
		}
		if limit > 0 && len(result) >= limit {
			break
		}
		result = append(result, *r.users[id])
	}
	return result, nil
}

type fakeDepartmentRepo struct {
	departments map[string]*domain.Department
}

func newFakeDepartmentRepo(ids ...string) *fakeDepartmentRepo {
	r := &fakeDepartmentRepo{departments: make(map[string]*domain.Department)}
	for _, id := range ids {
		r.departments[id] = &domain.Department{ID: id, Name: "dept " + id}
	}
	return r
}

func (r *fakeDepartmentRepo) Create(_ context.Context, dept *domain.Department) error {
	for _, existing := range r.departments {
		if existing.Name == dept.Name {
			return uniqueViolation("departments_name_key")
		}
	}
	dept.ID = fmt.Sprintf("dept-%d", len(r.departments)+1)
	stored := *dept
	r.departments[dept.ID] = &stored
	return nil
}

func (r *fakeDepartmentRepo) Update(_ context.Context, dept *domain.Department) error {
	if _, ok := r.departments[dept.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *dept
	r.departments[dept.ID] = &stored
	return nil
}

func (r *fakeDepartmentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.departments[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.departments, id)
	return nil
}

func (r *fakeDepartmentRepo) GetByID(_ context.Context, id string) (*domain.Department, error) {
	dept, ok := r.departments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *dept
	return &copied, nil
}

func (r *fakeDepartmentRepo) List(_ context.Context) ([]domain.Department, error) {
	result := make([]domain.Department, 0, len(r.departments))
	for _, dept := range r.departments {
		result = append(result, *dept)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

type fakeCategoryRepo struct {
	categories map[string]*domain.Category
}

func newFakeCategoryRepo(ids ...string) *fakeCategoryRepo {
	r := &fakeCategoryRepo{categories: make(map[string]*domain.Category)}
	for _, id := range ids {
		r.categories[id] = &domain.Category{ID: id, Name: "category " + id}
	}
	return r
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	for _, existing := range r.categories {
		if existing.Name == category.Name {
			return uniqueViolation("categories_name_key")
		}
	}
	category.ID = fmt.Sprintf("cat-%d", len(r.categories)+1)
	stored := *category
	r.categories[category.ID] = &stored
	return nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *domain.Category) error {
	if _, ok := r.categories[category.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *category
	r.categories[category.ID] = &stored
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.categories[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id string) (*domain.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *category
	return &copied, nil
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	result := make([]domain.Category, 0, len(r.categories))
	for _, category := range r.categories {
		result = append(result, *category)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// fakeTicketRepo keeps tickets in creation order so LatestTicketNumber
// matches the real repository's "most recently created" semantics.
// staleLatest simulates a concurrent writer: queued values are served by
// LatestTicketNumber before the true latest.
type fakeTicketRepo struct {
	tickets     []*domain.Ticket
	nextID      int
	staleLatest []string
	touched     map[string]int
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{touched: make(map[string]int)}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	for _, existing := range r.tickets {
		if existing.TicketNumber == ticket.TicketNumber {
			return uniqueViolation("tickets_ticket_number_key")
		}
	}
	r.nextID++
	ticket.ID = fmt.Sprintf("ticket-%d", r.nextID)
	now := time.Now()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	stored := *ticket
	r.tickets = append(r.tickets, &stored)
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	for i, existing := range r.tickets {
		if existing.ID == ticket.ID {
			ticket.TicketNumber = existing.TicketNumber
			ticket.UpdatedAt = time.Now()
			stored := *ticket
			r.tickets[i] = &stored
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeTicketRepo) Delete(_ context.Context, id string) error {
	for i, existing := range r.tickets {
		if existing.ID == id {
			r.tickets = append(r.tickets[:i], r.tickets[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	for _, existing := range r.tickets {
		if existing.ID == id {
			copied := *existing
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) GetByTicketNumber(_ context.Context, number string) (*domain.Ticket, error) {
	for _, existing := range r.tickets {
		if existing.TicketNumber == number {
			copied := *existing
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) LatestTicketNumber(_ context.Context) (string, error) {
	if len(r.staleLatest) > 0 {
		stale := r.staleLatest[0]
		r.staleLatest = r.staleLatest[1:]
		return stale, nil
	}
	if len(r.tickets) == 0 {
		return "", nil
	}
	return r.tickets[len(r.tickets)-1].TicketNumber, nil
}

func (r *fakeTicketRepo) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if filter.CreatorID != nil && ticket.CreatorID != *filter.CreatorID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, ticket.Status) {
			continue
		}
		if len(filter.Priorities) > 0 && !containsPriority(filter.Priorities, ticket.Priority) {
			continue
		}
		result = append(result, *ticket)
	}
	return result, nil
}

func (r *fakeTicketRepo) TouchUpdatedAt(_ context.Context, id string) error {
	for _, existing := range r.tickets {
		if existing.ID == id {
			existing.UpdatedAt = time.Now()
			r.touched[id]++
			return nil
		}
	}
	return pgx.ErrNoRows
}

func containsStatus(haystack []domain.TicketStatus, needle domain.TicketStatus) bool {
	for _, status := range haystack {
		if status == needle {
			return true
		}
	}
	return false
}

func containsPriority(haystack []domain.TicketPriority, needle domain.TicketPriority) bool {
	for _, priority := range haystack {
		if priority == needle {
			return true
		}
	}
	return false
}

type fakeMessageRepo struct {
	messages []*domain.Message
	nextID   int
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func (r *fakeMessageRepo) Create(_ context.Context, msg *domain.Message) error {
	r.nextID++
	msg.ID = fmt.Sprintf("msg-%d", r.nextID)
	msg.CreatedAt = time.Now()
	stored := *msg
	r.messages = append(r.messages, &stored)
	return nil
}

func (r *fakeMessageRepo) Update(_ context.Context, msg *domain.Message) error {
	for i, existing := range r.messages {
		if existing.ID == msg.ID {
			stored := *msg
			r.messages[i] = &stored
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeMessageRepo) Delete(_ context.Context, id string) error {
	for i, existing := range r.messages {
		if existing.ID == id {
			r.messages = append(r.messages[:i], r.messages[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeMessageRepo) GetByID(_ context.Context, id string) (*domain.Message, error) {
	for _, existing := range r.messages {
		if existing.ID == id {
			copied := *existing
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeMessageRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Message, error) {
	var result []domain.Message
	for _, msg := range r.messages {
		if msg.TicketID == ticketID {
			result = append(result, *msg)
		}
	}
	return result, nil
}
