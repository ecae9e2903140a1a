package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"

	"eventconnect/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

var fixedNow = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

// fakeProfileRepo implements domain.ProfileRepository for tests.
type fakeProfileRepo struct {
	byEmail   map[string]*domain.Profile
	nextID    int64
	creates   int
	createErr error
	getErr    error
	existsErr error
}

func newFakeProfileRepo(profiles ...*domain.Profile) *fakeProfileRepo {
	f := &fakeProfileRepo{byEmail: make(map[string]*domain.Profile), nextID: 100}
	for _, p := range profiles {
		f.byEmail[p.Email] = p
	}
	return f
}

func (f *fakeProfileRepo) Create(_ context.Context, p *domain.Profile) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.creates++
	f.nextID++
	p.ID = f.nextID
	f.byEmail[p.Email] = p
	return nil
}

func (f *fakeProfileRepo) GetByEmail(_ context.Context, email string) (*domain.Profile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if p, ok := f.byEmail[email]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeProfileRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.byEmail[email]
	return ok, nil
}

// fakeRoleRepo implements domain.RoleRepository for tests.
type fakeRoleRepo struct {
	byID    map[int64]*domain.Role
	listErr error
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{byID: map[int64]*domain.Role{
		1: domain.NewRole(1, "ROLE_USER"),
		2: domain.NewRole(2, "ROLE_ADMIN"),
	}}
}

func (f *fakeRoleRepo) GetByID(_ context.Context, id int64) (*domain.Role, error) {
	if r, ok := f.byID[id]; ok {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRoleRepo) List(context.Context) ([]*domain.Role, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	roles := make([]*domain.Role, 0, len(f.byID))
	for _, r := range f.byID {
		roles = append(roles, r)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].ID < roles[j].ID })
	return roles, nil
}

// fakeCategoryRepo implements domain.CategoryRepository for tests.
type fakeCategoryRepo struct {
	categories []*domain.Category
	lookups    int
	findErr    error
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: []*domain.Category{
		{ID: 1, Name: "Music"},
		{ID: 2, Name: "Sports"},
		{ID: 3, Name: "Technology"},
	}}
}

func (f *fakeCategoryRepo) List(context.Context) ([]*domain.Category, error) {
	return f.categories, nil
}

func (f *fakeCategoryRepo) FindAllByIDs(_ context.Context, ids []int64) ([]*domain.Category, error) {
	f.lookups++
	if f.findErr != nil {
		return nil, f.findErr
	}
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := []*domain.Category{}
	for _, c := range f.categories {
		if want[c.ID] {
			out = append(out, c)
		}
	}
	return out, nil
}

// fakeEventRepo implements domain.EventRepository for tests. It counts writes so tests can
// assert that nothing was saved.
type fakeEventRepo struct {
	byID          map[int64]*domain.Event
	nextID        int64
	creates       int
	updates       int
	deletes       int
	setCategories map[int64][]int64
	createErr     error
	updateErr     error
	deleteErr     error
	listErr       error
}

func newFakeEventRepo(events ...*domain.Event) *fakeEventRepo {
	f := &fakeEventRepo{byID: make(map[int64]*domain.Event), nextID: 500, setCategories: make(map[int64][]int64)}
	for _, e := range events {
		f.byID[e.ID] = e
	}
	return f
}

func (f *fakeEventRepo) Create(_ context.Context, e *domain.Event) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.creates++
	f.nextID++
	e.ID = f.nextID
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id int64) (*domain.Event, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEventRepo) List(context.Context) ([]*domain.Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.sorted(func(*domain.Event) bool { return true }), nil
}

func (f *fakeEventRepo) ListByCategoryID(_ context.Context, categoryID int64) ([]*domain.Event, error) {
	return f.sorted(func(e *domain.Event) bool {
		for _, c := range e.Categories {
			if c.ID == categoryID {
				return true
			}
		}
		return false
	}), nil
}

func (f *fakeEventRepo) ListByOwnerID(_ context.Context, ownerID int64) ([]*domain.Event, error) {
	return f.sorted(func(e *domain.Event) bool { return e.OwnerID == ownerID }), nil
}

func (f *fakeEventRepo) sorted(keep func(*domain.Event) bool) []*domain.Event {
	out := []*domain.Event{}
	for _, e := range f.byID {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeEventRepo) Update(_ context.Context, e *domain.Event) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates++
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeEventRepo) Delete(_ context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletes++
	delete(f.byID, id)
	return nil
}

func (f *fakeEventRepo) SetCategories(_ context.Context, eventID int64, ids []int64) error {
	f.setCategories[eventID] = ids
	return nil
}

// fakeTransactor runs fn directly and records the outcome.
type fakeTransactor struct {
	calls     int
	rollbacks int
}

func (f *fakeTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	if err := fn(ctx); err != nil {
		f.rollbacks++
		return err
	}
	return nil
}

// fakeImageStorage implements domain.ImageStorage for tests.
type fakeImageStorage struct {
	deleted []string
}

func (f *fakeImageStorage) SaveImage(context.Context, io.Reader, string, string, int64) (string, error) {
	return "generated.png", nil
}

func (f *fakeImageStorage) DeleteImage(_ context.Context, name string) {
	f.deleted = append(f.deleted, name)
}

func (f *fakeImageStorage) ResolvePath(name string) (string, error) { return "/tmp/" + name, nil }

func (f *fakeImageStorage) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, domain.ErrNotFound
}

// fakePasswordHasher implements domain.PasswordHasher for tests.
type fakePasswordHasher struct {
	hashErr  error
	verified []string
}

func (f *fakePasswordHasher) Hash(password string) (string, error) {
	if f.hashErr != nil {
		return "", f.hashErr
	}
	return "hashed:" + password, nil
}

func (f *fakePasswordHasher) Verify(password, hash string) bool {
	f.verified = append(f.verified, hash)
	return hash == "hashed:"+password
}

// fakeTokenIssuer implements domain.TokenIssuer for tests.
type fakeTokenIssuer struct {
	err         error
	lastSubject string
	lastRoles   []string
}

func (f *fakeTokenIssuer) Issue(subject string, roles []string, _ time.Time) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.lastSubject = subject
	f.lastRoles = roles
	return "token-" + subject, nil
}

// fakeEmailService implements domain.EmailService for tests.
type fakeEmailService struct {
	err  error
	sent []*domain.WelcomeMessageEmailData
}

func (f *fakeEmailService) SendWelcomeMessage(_ context.Context, data *domain.WelcomeMessageEmailData) error {
	f.sent = append(f.sent, data)
	return f.err
}
