// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"weighttrend/internal/domain"
)

// ErrUserExists is returned by Create for a duplicate username.
var ErrUserExists = errors.New("user already exists")

// DB implements an in-memory database storage.
type DB struct {
	mu       sync.Mutex
	weights  []domain.WeightEntry
	goals    map[int64]domain.Goal
	calories []domain.CalorieEntry
	kcalGoal map[int64]int
	users    []*domain.User
	sessions map[string]*domain.Session

	weightIDCounter  int64
	calorieIDCounter int64
	userIDCounter    int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		goals:    make(map[int64]domain.Goal),
		kcalGoal: make(map[int64]int),
		sessions: make(map[string]*domain.Session),
	}
}

// Ensure interfaces are met.
var (
	_ domain.WeightRepository  = (*DB)(nil)
	_ domain.GoalRepository    = (*DB)(nil)
	_ domain.CalorieRepository = (*DB)(nil)
	_ domain.UserRepository    = (*DB)(nil)
	_ domain.SessionRepository = (*SessionRepo)(nil)
)

// --- WeightRepository ---

// AddWeightEvent adds a weight event.
func (db *DB) AddWeightEvent(_ context.Context, userID int64, value float64, unit string, createdAt time.Time) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.weightIDCounter++
	db.weights = append(db.weights, domain.WeightEntry{
		ID:        db.weightIDCounter,
		UserID:    userID,
		Value:     value,
		Unit:      unit,
		CreatedAt: createdAt.UTC(),
	})
	return db.weightIDCounter, nil
}

// DeleteLatestWeightEvent deletes the user's most recent weight event.
func (db *DB) DeleteLatestWeightEvent(_ context.Context, userID int64) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	lastIdx := -1
	for i, w := range db.weights {
		if w.UserID != userID {
			continue
		}
		if lastIdx == -1 || w.CreatedAt.After(db.weights[lastIdx].CreatedAt) {
			lastIdx = i
		}
	}
	if lastIdx == -1 {
		return false, nil
	}
	db.weights = append(db.weights[:lastIdx], db.weights[lastIdx+1:]...)
	return true, nil
}

// LatestWeightForLocalDay returns the latest weight for the given day.
func (db *DB) LatestWeightForLocalDay(_ context.Context, userID int64, localDay string) (*domain.WeightEntry, error) {
	dayStart, err := time.ParseInLocation("2006-01-02", localDay, time.Local)
	if err != nil {
		return nil, err
	}
	dayEnd := dayStart.AddDate(0, 0, 1)

	db.mu.Lock()
	defer db.mu.Unlock()

	var latest *domain.WeightEntry
	for i := range db.weights {
		w := &db.weights[i]
		if w.UserID != userID || w.CreatedAt.Before(dayStart) || !w.CreatedAt.Before(dayEnd) {
			continue
		}
		if latest == nil || w.CreatedAt.After(latest.CreatedAt) {
			latest = w
		}
	}
	if latest == nil {
		return nil, nil
	}
	ret := *latest
	ret.Day = localDay
	return &ret, nil
}

// ListRecentWeightEvents lists the user's most recent weight events, newest first.
func (db *DB) ListRecentWeightEvents(_ context.Context, userID int64, limit int) ([]domain.WeightEntry, error) {
	result := db.userWeights(userID, func(domain.WeightEntry) bool { return true })
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// ListWeightEventsSince lists the user's weight events at or after since,
// oldest first.
func (db *DB) ListWeightEventsSince(_ context.Context, userID int64, since time.Time) ([]domain.WeightEntry, error) {
	result := db.userWeights(userID, func(w domain.WeightEntry) bool { return !w.CreatedAt.Before(since) })
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// userWeights copies the user's entries matching keep, with Day populated.
func (db *DB) userWeights(userID int64, keep func(domain.WeightEntry) bool) []domain.WeightEntry {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.WeightEntry, 0, len(db.weights))
	for _, w := range db.weights {
		if w.UserID == userID && keep(w) {
			w.Day = w.CreatedAt.In(time.Local).Format("2006-01-02")
			result = append(result, w)
		}
	}
	return result
}

// --- GoalRepository ---

// GetGoal returns the user's goal, or nil if none is set.
func (db *DB) GetGoal(_ context.Context, userID int64) (*domain.Goal, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	g, ok := db.goals[userID]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

// SetGoal replaces the user's goal.
func (db *DB) SetGoal(_ context.Context, userID int64, targetValue float64, unit string, updatedAt time.Time) (*domain.Goal, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	g := domain.Goal{UserID: userID, TargetValue: targetValue, Unit: unit, UpdatedAt: updatedAt.UTC()}
	db.goals[userID] = g
	return &g, nil
}

// --- CalorieRepository ---

// AddCalorieEntry stores a meal or exercise entry.
func (db *DB) AddCalorieEntry(_ context.Context, e domain.CalorieEntry) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.calorieIDCounter++
	e.ID = db.calorieIDCounter
	e.CreatedAt = e.CreatedAt.UTC()
	db.calories = append(db.calories, e)
	return e.ID, nil
}

// ListCalorieEntries lists the user's entries for a day, newest first.
func (db *DB) ListCalorieEntries(_ context.Context, userID int64, day string) ([]domain.CalorieEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := []domain.CalorieEntry{}
	for i := len(db.calories) - 1; i >= 0; i-- {
		if e := db.calories[i]; e.UserID == userID && e.Day == day {
			result = append(result, e)
		}
	}
	return result, nil
}

// DeleteCalorieEntry deletes one of the user's entries.
func (db *DB) DeleteCalorieEntry(_ context.Context, userID, id int64) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, e := range db.calories {
		if e.ID == id && e.UserID == userID {
			db.calories = append(db.calories[:i], db.calories[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// GetDailyCalorieGoal returns the user's daily goal, 0 if unset.
func (db *DB) GetDailyCalorieGoal(_ context.Context, userID int64) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.kcalGoal[userID], nil
}

// SetDailyCalorieGoal replaces the user's daily goal.
func (db *DB) SetDailyCalorieGoal(_ context.Context, userID int64, kcal int) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.kcalGoal[userID] = kcal
	return nil
}

// --- UserRepository ---

// GetByUsername retrieves a user by username.
func (db *DB) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(_ context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

// Create creates a new user.
func (db *DB) Create(_ context.Context, username, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return nil, ErrUserExists
		}
	}

	db.userIDCounter++
	u := &domain.User{
		ID:           db.userIDCounter,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	return u, nil
}

// Count returns the total number of users.
func (db *DB) Count(_ context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.users), nil
}

// --- SessionRepository ---

// SessionRepo implements session persistence.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new session repository.
func (db *DB) NewSessionRepo() *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session.
func (r *SessionRepo) Create(_ context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.sessions[token] = &domain.Session{
		Token:     token,
		UserID:    userID,
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// GetByToken retrieves a session by token. Expiry is left to the caller.
func (r *SessionRepo) GetByToken(_ context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	s, ok := r.db.sessions[token]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

// Delete deletes a session.
func (r *SessionRepo) Delete(_ context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(_ context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	for k, v := range r.db.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.db.sessions, k)
		}
	}
	return nil
}
