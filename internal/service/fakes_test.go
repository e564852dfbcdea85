package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mansoorceksport/gymhub/internal/domain"
	"github.com/mansoorceksport/gymhub/pkg/logger"
)

// memStore backs every repository interface with maps. Fail* fields inject errors.
type memStore struct {
	mu  sync.Mutex
	seq int

	users         map[string]*domain.User
	gyms          map[string]*domain.Gym
	workouts      map[string]*domain.WorkoutPlan
	diets         map[string]*domain.DietPlan
	notifications []*domain.Notification
	macros        map[string]*domain.MacroLog
	body          map[string]*domain.BodyProgress

	FailClearGym    error
	FailGymDelete   error
	FailNotifyFor   map[string]error
	FailWorkoutRead error
}

func newMemStore() *memStore {
	return &memStore{
		users:         make(map[string]*domain.User),
		gyms:          make(map[string]*domain.Gym),
		workouts:      make(map[string]*domain.WorkoutPlan),
		diets:         make(map[string]*domain.DietPlan),
		macros:        make(map[string]*domain.MacroLog),
		body:          make(map[string]*domain.BodyProgress),
		FailNotifyFor: make(map[string]error),
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memStore) addUser(id, name, role, gymID string) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &domain.User{ID: id, Name: name, Email: id + "@example.com", Role: role, GymID: gymID}
	m.users[id] = u
	return u
}

func (m *memStore) userRepo() domain.UserRepository                 { return memUsers{m} }
func (m *memStore) gymRepo() domain.GymRepository                   { return memGyms{m} }
func (m *memStore) workoutRepo() domain.WorkoutPlanRepository       { return memWorkouts{m} }
func (m *memStore) dietRepo() domain.DietPlanRepository             { return memDiets{m} }
func (m *memStore) notificationRepo() domain.NotificationRepository { return memNotifications{m} }
func (m *memStore) macroRepo() domain.MacroLogRepository            { return memMacros{m} }
func (m *memStore) bodyRepo() domain.BodyProgressRepository         { return memBody{m} }

func (m *memStore) unread(recipientID string) []*domain.Notification {
	list, _ := memNotifications{m}.ListUnread(context.Background(), recipientID)
	return list
}

type memUsers struct{ m *memStore }

func (r memUsers) Create(ctx context.Context, u *domain.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if u.ID == "" {
		u.ID = r.m.nextID("user")
	}
	r.m.users[u.ID] = u
	return nil
}

func (r memUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r memUsers) GetByEmailAndRole(ctx context.Context, email, role string) (*domain.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Email == email && u.Role == role {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r memUsers) SetGym(ctx context.Context, userID, gymID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.GymID = gymID
	return nil
}

func (r memUsers) ClearGym(ctx context.Context, gymID string) ([]string, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.FailClearGym != nil {
		return nil, r.m.FailClearGym
	}
	ids := make([]string, 0)
	for id, u := range r.m.users {
		if u.GymID == gymID {
			u.GymID = ""
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r memUsers) GetByGymAndRole(ctx context.Context, gymID, role string) ([]*domain.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]*domain.User, 0)
	for _, u := range r.m.users {
		if u.GymID == gymID && u.Role == role {
			copied := *u
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type memGyms struct{ m *memStore }

func (r memGyms) Create(ctx context.Context, g *domain.Gym) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	g.ID = r.m.nextID("gym")
	g.CreatedAt = time.Now().Add(time.Duration(r.m.seq) * time.Millisecond)
	copied := *g
	r.m.gyms[g.ID] = &copied
	return nil
}

func (r memGyms) GetByID(ctx context.Context, id string) (*domain.Gym, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	g, ok := r.m.gyms[id]
	if !ok {
		return nil, domain.ErrGymNotFound
	}
	copied := *g
	return &copied, nil
}

func (r memGyms) GetByOwner(ctx context.Context, ownerID string) ([]*domain.Gym, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]*domain.Gym, 0)
	for _, g := range r.m.gyms {
		if g.OwnerID == ownerID {
			copied := *g
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r memGyms) Update(ctx context.Context, g *domain.Gym) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.gyms[g.ID]; !ok {
		return domain.ErrGymNotFound
	}
	copied := *g
	r.m.gyms[g.ID] = &copied
	return nil
}

func (r memGyms) Delete(ctx context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.FailGymDelete != nil {
		return r.m.FailGymDelete
	}
	if _, ok := r.m.gyms[id]; !ok {
		return domain.ErrGymNotFound
	}
	delete(r.m.gyms, id)
	return nil
}

type memWorkouts struct{ m *memStore }

func (r memWorkouts) Create(ctx context.Context, p *domain.WorkoutPlan) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.workouts[p.UserID]; ok {
		return fmt.Errorf("%w: workout plan exists", domain.ErrConflict)
	}
	p.ID = r.m.nextID("workout")
	copied := *p
	r.m.workouts[p.UserID] = &copied
	return nil
}

func (r memWorkouts) GetByUserID(ctx context.Context, userID string) (*domain.WorkoutPlan, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.FailWorkoutRead != nil {
		return nil, r.m.FailWorkoutRead
	}
	p, ok := r.m.workouts[userID]
	if !ok {
		return nil, domain.ErrWorkoutPlanNotFound
	}
	copied := *p
	return &copied, nil
}

func (r memWorkouts) ReplaceExercises(ctx context.Context, userID string, exercises []domain.Exercise) (*domain.WorkoutPlan, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.workouts[userID]
	if !ok {
		return nil, domain.ErrWorkoutPlanNotFound
	}
	p.Exercises = exercises
	copied := *p
	return &copied, nil
}

func (r memWorkouts) DeleteByUserID(ctx context.Context, userID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.workouts[userID]; !ok {
		return domain.ErrWorkoutPlanNotFound
	}
	delete(r.m.workouts, userID)
	return nil
}

type memDiets struct{ m *memStore }

func (r memDiets) Create(ctx context.Context, p *domain.DietPlan) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.diets[p.UserID]; ok {
		return fmt.Errorf("%w: diet plan exists", domain.ErrConflict)
	}
	p.ID = r.m.nextID("diet")
	copied := *p
	r.m.diets[p.UserID] = &copied
	return nil
}

func (r memDiets) GetByUserID(ctx context.Context, userID string) (*domain.DietPlan, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.diets[userID]
	if !ok {
		return nil, domain.ErrDietPlanNotFound
	}
	copied := *p
	return &copied, nil
}

func (r memDiets) ReplaceMeals(ctx context.Context, userID string, meals []domain.Meal) (*domain.DietPlan, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.diets[userID]
	if !ok {
		return nil, domain.ErrDietPlanNotFound
	}
	p.Meals = meals
	copied := *p
	return &copied, nil
}

func (r memDiets) DeleteByUserID(ctx context.Context, userID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.diets[userID]; !ok {
		return domain.ErrDietPlanNotFound
	}
	delete(r.m.diets, userID)
	return nil
}

type memNotifications struct{ m *memStore }

func (r memNotifications) Create(ctx context.Context, n *domain.Notification) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.FailNotifyFor[n.RecipientID]; err != nil {
		return err
	}
	n.ID = r.m.nextID("notification")
	n.CreatedAt = time.Now().Add(time.Duration(r.m.seq) * time.Millisecond)
	r.m.notifications = append(r.m.notifications, n)
	return nil
}

func (r memNotifications) ListUnread(ctx context.Context, recipientID string) ([]*domain.Notification, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]*domain.Notification, 0)
	for i := len(r.m.notifications) - 1; i >= 0; i-- {
		n := r.m.notifications[i]
		if n.RecipientID == recipientID && !n.IsRead {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r memNotifications) MarkRead(ctx context.Context, id, recipientID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, n := range r.m.notifications {
		if n.ID == id && n.RecipientID == recipientID {
			n.IsRead = true
			return nil
		}
	}
	return domain.ErrNotificationNotFound
}

func (r memNotifications) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var changed int64
	for _, n := range r.m.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			n.IsRead = true
			changed++
		}
	}
	return changed, nil
}

type memMacros struct{ m *memStore }

func (r memMacros) Create(ctx context.Context, l *domain.MacroLog) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	l.ID = r.m.nextID("macro")
	copied := *l
	r.m.macros[l.ID] = &copied
	return nil
}

func (r memMacros) GetByID(ctx context.Context, id string) (*domain.MacroLog, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	l, ok := r.m.macros[id]
	if !ok {
		return nil, domain.ErrMacroLogNotFound
	}
	copied := *l
	return &copied, nil
}

func (r memMacros) Update(ctx context.Context, l *domain.MacroLog) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	existing, ok := r.m.macros[l.ID]
	if !ok || existing.UserID != l.UserID {
		return domain.ErrMacroLogNotFound
	}
	copied := *l
	r.m.macros[l.ID] = &copied
	return nil
}

func (r memMacros) DeleteForUser(ctx context.Context, id, userID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	l, ok := r.m.macros[id]
	if !ok || l.UserID != userID {
		return domain.ErrMacroLogNotFound
	}
	delete(r.m.macros, id)
	return nil
}

func (r memMacros) ListByUser(ctx context.Context, userID string) ([]*domain.MacroLog, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]*domain.MacroLog, 0)
	for _, l := range r.m.macros {
		if l.UserID == userID {
			copied := *l
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

type memBody struct{ m *memStore }

func (r memBody) Create(ctx context.Context, e *domain.BodyProgress) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	e.ID = r.m.nextID("body")
	copied := *e
	r.m.body[e.ID] = &copied
	return nil
}

func (r memBody) GetByID(ctx context.Context, id string) (*domain.BodyProgress, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	e, ok := r.m.body[id]
	if !ok {
		return nil, domain.ErrBodyProgressNotFound
	}
	copied := *e
	return &copied, nil
}

func (r memBody) Update(ctx context.Context, e *domain.BodyProgress) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	existing, ok := r.m.body[e.ID]
	if !ok || existing.UserID != e.UserID {
		return domain.ErrBodyProgressNotFound
	}
	copied := *e
	r.m.body[e.ID] = &copied
	return nil
}

func (r memBody) DeleteForUser(ctx context.Context, id, userID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	e, ok := r.m.body[id]
	if !ok || e.UserID != userID {
		return domain.ErrBodyProgressNotFound
	}
	delete(r.m.body, id)
	return nil
}

func (r memBody) ListByUser(ctx context.Context, userID string) ([]*domain.BodyProgress, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]*domain.BodyProgress, 0)
	for _, e := range r.m.body {
		if e.UserID == userID {
			copied := *e
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// fakeImageStore records uploads and deletes
type fakeImageStore struct {
	mu        sync.Mutex
	uploaded  []string
	deleted   []string
	failOnDel error
}

func (s *fakeImageStore) Upload(ctx context.Context, data []byte, key, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	url := "http://images.local/gyms/" + key
	s.uploaded = append(s.uploaded, url)
	return url, nil
}

func (s *fakeImageStore) Delete(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOnDel != nil {
		return s.failOnDel
	}
	s.deleted = append(s.deleted, url)
	return nil
}

// testEnv wires every service over one memStore
type testEnv struct {
	store         *memStore
	images        *fakeImageStore
	authz         *Authorizer
	membership    *MembershipService
	programs      *ProgramService
	notifications *NotificationService
	progress      *ProgressService
}

func newTestEnv() *testEnv {
	store := newMemStore()
	images := &fakeImageStore{}
	authz := NewAuthorizer(store.userRepo(), store.gymRepo())
	log := logger.Nop()
	return &testEnv{
		store:         store,
		images:        images,
		authz:         authz,
		membership:    NewMembershipService(authz, store.gymRepo(), store.userRepo(), images, log),
		programs:      NewProgramService(authz, store.workoutRepo(), store.dietRepo(), log),
		notifications: NewNotificationService(authz, store.notificationRepo(), log),
		progress:      NewProgressService(authz, store.macroRepo(), store.bodyRepo()),
	}
}

func principal(u *domain.User) domain.Principal {
	return domain.Principal{ID: u.ID, Role: u.Role}
}
