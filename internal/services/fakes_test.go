package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"cultivation-service/internal/ai/gemini"
	"cultivation-service/internal/event"
	"cultivation-service/internal/models"
	"cultivation-service/internal/repository"

	"github.com/google/uuid"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func daysAgo(n int) time.Time { return testNow.AddDate(0, 0, -n) }

// ============================================================================
// CULTIVATIONS
// ============================================================================

type fakeCultivationRepo struct {
	items     map[uuid.UUID]*models.Cultivation
	updates   []map[string]any
	updateErr error
}

func newFakeCultivationRepo(cs ...*models.Cultivation) *fakeCultivationRepo {
	r := &fakeCultivationRepo{items: map[uuid.UUID]*models.Cultivation{}}
	for _, c := range cs {
		r.items[c.ID] = c
	}
	return r
}

func (r *fakeCultivationRepo) Create(ctx context.Context, c *models.Cultivation) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.items[c.ID] = c
	return nil
}

func (r *fakeCultivationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Cultivation, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (r *fakeCultivationRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Cultivation, error) {
	out := []models.Cultivation{}
	for _, c := range r.items {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCultivationRepo) ListActive(ctx context.Context) ([]models.Cultivation, error) {
	out := []models.Cultivation{}
	for _, c := range r.items {
		if c.Status == models.CultivationActive {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCultivationRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	c, ok := r.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.updates = append(r.updates, updates)
	for k, v := range updates {
		switch k {
		case "name":
			c.Name = v.(string)
		case "status":
			c.Status = v.(models.CultivationStatus)
		case "end_date":
			c.EndDate = timeOrNil(v)
		case "flowering_date":
			c.FloweringDate = timeOrNil(v)
		case "harvest_date":
			c.HarvestDate = timeOrNil(v)
		case "curing_date":
			c.CuringDate = timeOrNil(v)
		case "yield_g":
			y := v.(float64)
			c.YieldG = &y
		case "has_severe_problems":
			c.HasSevereProblems = v.(bool)
		}
	}
	return nil
}

func timeOrNil(v any) *time.Time {
	if v == nil {
		return nil
	}
	t := v.(time.Time)
	return &t
}

func (r *fakeCultivationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// ============================================================================
// EVENTS AND IMAGES
// ============================================================================

// fakeEventRepo applies cultivation updates before touching its own items, so
// a failed update leaves the events unchanged as a rolled back transaction would.
type fakeEventRepo struct {
	items        []*models.CultivationEvent
	cultivations *fakeCultivationRepo
}

func (r *fakeEventRepo) applyUpdates(ctx context.Context, cultivationID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	if r.cultivations == nil {
		return errors.New("no cultivation repository")
	}
	return r.cultivations.Update(ctx, cultivationID, updates)
}

func (r *fakeEventRepo) Create(ctx context.Context, e *models.CultivationEvent, updates map[string]any) error {
	if err := r.applyUpdates(ctx, e.CultivationID, updates); err != nil {
		return err
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.items = append(r.items, e)
	return nil
}

func (r *fakeEventRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.CultivationEvent, error) {
	for _, e := range r.items {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeEventRepo) ListByCultivation(ctx context.Context, cultivationID uuid.UUID) ([]models.CultivationEvent, error) {
	out := []models.CultivationEvent{}
	for _, e := range r.items {
		if e.CultivationID == cultivationID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventDate.Before(out[j].EventDate) })
	return out, nil
}

func (r *fakeEventRepo) Delete(ctx context.Context, ev *models.CultivationEvent, updates map[string]any) error {
	for i, e := range r.items {
		if e.ID == ev.ID {
			if err := r.applyUpdates(ctx, ev.CultivationID, updates); err != nil {
				return err
			}
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeEventRepo) LatestByType(ctx context.Context, cultivationID uuid.UUID) (map[models.EventType]time.Time, error) {
	out := map[models.EventType]time.Time{}
	for _, e := range r.items {
		if e.CultivationID == cultivationID && e.EventDate.After(out[e.Type]) {
			out[e.Type] = e.EventDate
		}
	}
	return out, nil
}

func (r *fakeEventRepo) LatestEnvironment(ctx context.Context, cultivationID uuid.UUID) (*models.EnvironmentReading, error) {
	var latest *models.EnvironmentReading
	for _, e := range r.items {
		if e.CultivationID != cultivationID {
			continue
		}
		if env := e.Environment(); env != nil && (latest == nil || env.RecordedAt.After(latest.RecordedAt)) {
			latest = env
		}
	}
	return latest, nil
}

func (r *fakeEventRepo) ListRecentByUser(ctx context.Context, userID string, limit int) ([]models.CultivationEvent, error) {
	out := []models.CultivationEvent{}
	for _, e := range r.items {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventDate.After(out[j].EventDate) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeEventRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	n := 0
	for _, e := range r.items {
		if e.UserID == userID {
			n++
		}
	}
	return n, nil
}

type fakeImageRepo struct {
	items     []*models.CultivationImage
	createErr error
}

func (r *fakeImageRepo) Create(ctx context.Context, img *models.CultivationImage) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.items = append(r.items, img)
	return nil
}

func (r *fakeImageRepo) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.CultivationImage, error) {
	out := []models.CultivationImage{}
	for _, img := range r.items {
		if img.EventID != nil && *img.EventID == eventID {
			out = append(out, *img)
		}
	}
	return out, nil
}

type fakeStore struct {
	objects   map[string][]byte
	uploadErr error
	deleted   []string
}

func newFakeStore() *fakeStore { return &fakeStore{objects: map[string][]byte{}} }

func (s *fakeStore) UploadBytes(ctx context.Context, bucket, object string, data []byte, contentType string) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}
	s.objects[bucket+"/"+object] = data
	return nil
}

func (s *fakeStore) DeleteFile(ctx context.Context, bucket, object string) error {
	s.deleted = append(s.deleted, bucket+"/"+object)
	delete(s.objects, bucket+"/"+object)
	return nil
}

func (s *fakeStore) PublicURL(bucket, object string) string {
	return "https://cdn.test/" + bucket + "/" + object
}

// ============================================================================
// NOTIFICATIONS, CACHE, AI
// ============================================================================

type fakeNotificationRepo struct {
	items     []models.Notification
	createErr error
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	r.items = append(r.items, *n)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]models.Notification, error) {
	out := []models.Notification{}
	for _, n := range r.items {
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			out = append(out, n)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id uuid.UUID, userID string) error {
	for i := range r.items {
		if r.items[i].ID == id && r.items[i].UserID == userID {
			r.items[i].IsRead = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	var n int64
	for i := range r.items {
		if r.items[i].UserID == userID && !r.items[i].IsRead {
			r.items[i].IsRead = true
			n++
		}
	}
	return n, nil
}

type fakePreferencesRepo struct {
	items map[string]*models.NotificationPreferences
}

func newFakePreferencesRepo() *fakePreferencesRepo {
	return &fakePreferencesRepo{items: map[string]*models.NotificationPreferences{}}
}

func (r *fakePreferencesRepo) Get(ctx context.Context, userID string) (*models.NotificationPreferences, error) {
	p, ok := r.items[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakePreferencesRepo) Upsert(ctx context.Context, p *models.NotificationPreferences) error {
	copied := *p
	r.items[p.UserID] = &copied
	return nil
}

type fakePublisher struct {
	events []event.NotificationEventPushModel
	err    error
}

func (p *fakePublisher) PublishNotification(ctx context.Context, ev event.NotificationEventPushModel) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

type fakeCache struct {
	entries map[string]*models.AnalysisResult
}

func newFakeCache() *fakeCache { return &fakeCache{entries: map[string]*models.AnalysisResult{}} }

func (c *fakeCache) Get(ctx context.Context, key string) (*models.AnalysisResult, error) {
	r, ok := c.entries[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, result *models.AnalysisResult, ttl time.Duration) error {
	copied := *result
	c.entries[key] = &copied
	return nil
}

type fakeAI struct {
	calls   int
	prompts []string
	images  [][]gemini.ImagePart
	result  map[string]any
	err     error
}

func (f *fakeAI) GenerateJSON(ctx context.Context, prompt string, images []gemini.ImagePart) (map[string]any, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	f.images = append(f.images, images)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

var errBoom = errors.New("boom")
