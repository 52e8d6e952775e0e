package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"layer-backend/errs"
	"layer-backend/models"
)

// MemoryStore keeps every per-user collection in process memory, keyed by id.
// All mutations go through one mutex so read-check-write sequences cannot interleave.
type MemoryStore struct {
	mu      sync.RWMutex
	now     func() time.Time
	users   map[string]*models.User
	items   map[string][]*models.ClothingItem
	outfits map[string][]*models.Outfit // newest first
	folders map[string][]*models.Folder
	planner map[string]map[models.Weekday]models.PlannedDay
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:     time.Now,
		users:   make(map[string]*models.User),
		items:   make(map[string][]*models.ClothingItem),
		outfits: make(map[string][]*models.Outfit),
		folders: make(map[string][]*models.Folder),
		planner: make(map[string]map[models.Weekday]models.PlannedDay),
	}
}

// Users returns the store's UserRepository view
func (s *MemoryStore) Users() UserRepository { return memoryUsers{s} }

// Items returns the store's ItemRepository view
func (s *MemoryStore) Items() ItemRepository { return memoryItems{s} }

// Outfits returns the store's OutfitRepository view
func (s *MemoryStore) Outfits() OutfitRepository { return memoryOutfits{s} }

// Folders returns the store's FolderRepository view
func (s *MemoryStore) Folders() FolderRepository { return memoryFolders{s} }

// Planner returns the store's PlannerRepository view
func (s *MemoryStore) Planner() PlannerRepository { return memoryPlanner{s} }

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Styles = cloneStrings(u.Styles)
	return &c
}

func cloneItem(i *models.ClothingItem) *models.ClothingItem {
	c := *i
	return &c
}

func cloneOutfit(o *models.Outfit) *models.Outfit {
	c := *o
	c.ItemIDs = cloneStrings(o.ItemIDs)
	return &c
}

type memoryUsers struct{ s *MemoryStore }

func (r memoryUsers) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return errs.ErrAlreadyExists
		}
	}
	if user.Styles == nil {
		user.Styles = []string{}
	}
	user.CreatedAt = r.s.now()
	r.s.users[user.ID] = cloneUser(user)
	return nil
}

func (r memoryUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r memoryUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, errs.ErrNotFound
}

func (r memoryUsers) UpdatePlan(_ context.Context, id string, plan models.Plan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return errs.ErrNotFound
	}
	u.Plan = plan
	return nil
}

func (r memoryUsers) UpdateStyles(_ context.Context, id string, styles []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return errs.ErrNotFound
	}
	u.Styles = cloneStrings(styles)
	return nil
}

type memoryItems struct{ s *MemoryStore }

func (r memoryItems) Create(_ context.Context, item *models.ClothingItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	item.CreatedAt = r.s.now()
	r.s.items[item.UserID] = append(r.s.items[item.UserID], cloneItem(item))
	return nil
}

func (r memoryItems) GetByID(_ context.Context, userID, id string) (*models.ClothingItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, it := range r.s.items[userID] {
		if it.ID == id {
			return cloneItem(it), nil
		}
	}
	return nil, errs.ErrNotFound
}

func (r memoryItems) ListByUserID(_ context.Context, userID string) ([]*models.ClothingItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.ClothingItem, 0, len(r.s.items[userID]))
	for _, it := range r.s.items[userID] {
		out = append(out, cloneItem(it))
	}
	return out, nil
}

func (r memoryItems) Delete(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	list := r.s.items[userID]
	for i, it := range list {
		if it.ID == id {
			r.s.items[userID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return errs.ErrNotFound
}

func (r memoryItems) RecordWear(_ context.Context, userID, id string, at time.Time) (*models.ClothingItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, it := range r.s.items[userID] {
		if it.ID == id {
			it.WearCount++
			worn := at
			it.LastWorn = &worn
			return cloneItem(it), nil
		}
	}
	return nil, errs.ErrNotFound
}

type memoryOutfits struct{ s *MemoryStore }

func (r memoryOutfits) insertLocked(outfit *models.Outfit) {
	if outfit.ItemIDs == nil {
		outfit.ItemIDs = []string{}
	}
	outfit.CreatedAt = r.s.now()
	list := r.s.outfits[outfit.UserID]
	r.s.outfits[outfit.UserID] = append([]*models.Outfit{cloneOutfit(outfit)}, list...)
}

func (r memoryOutfits) Create(_ context.Context, outfit *models.Outfit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.insertLocked(outfit)
	return nil
}

func (r memoryOutfits) CreateIfAbsent(_ context.Context, outfit *models.Outfit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, o := range r.s.outfits[outfit.UserID] {
		if models.SameLook(o.Description, o.ItemIDs, outfit.Description, outfit.ItemIDs) {
			return errs.ErrAlreadyExists
		}
	}
	r.insertLocked(outfit)
	return nil
}

func (r memoryOutfits) find(userID, id string) *models.Outfit {
	for _, o := range r.s.outfits[userID] {
		if o.ID == id {
			return o
		}
	}
	return nil
}

func (r memoryOutfits) GetByID(_ context.Context, userID, id string) (*models.Outfit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if o := r.find(userID, id); o != nil {
		return cloneOutfit(o), nil
	}
	return nil, errs.ErrNotFound
}

func (r memoryOutfits) ListByUserID(_ context.Context, userID string) ([]*models.Outfit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.Outfit, 0, len(r.s.outfits[userID]))
	for _, o := range r.s.outfits[userID] {
		out = append(out, cloneOutfit(o))
	}
	return out, nil
}

func (r memoryOutfits) Delete(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	list := r.s.outfits[userID]
	for i, o := range list {
		if o.ID == id {
			r.s.outfits[userID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return errs.ErrNotFound
}

func (r memoryOutfits) ToggleFavorite(_ context.Context, userID, id string) (*models.Outfit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o := r.find(userID, id)
	if o == nil {
		return nil, errs.ErrNotFound
	}
	o.IsFavorite = !o.IsFavorite
	return cloneOutfit(o), nil
}

func (r memoryOutfits) SetFolder(_ context.Context, userID, id string, folderID *string) (*models.Outfit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o := r.find(userID, id)
	if o == nil {
		return nil, errs.ErrNotFound
	}
	if folderID == nil {
		o.FolderID = nil
	} else {
		f := *folderID
		o.FolderID = &f
	}
	return cloneOutfit(o), nil
}

type memoryFolders struct{ s *MemoryStore }

func (r memoryFolders) Create(_ context.Context, folder *models.Folder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	folder.CreatedAt = r.s.now()
	c := *folder
	r.s.folders[folder.UserID] = append(r.s.folders[folder.UserID], &c)
	return nil
}

func (r memoryFolders) ListByUserID(_ context.Context, userID string) ([]*models.Folder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.Folder, 0, len(r.s.folders[userID]))
	for _, f := range r.s.folders[userID] {
		c := *f
		out = append(out, &c)
	}
	return out, nil
}

func (r memoryFolders) Delete(_ context.Context, userID, id string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	list := r.s.folders[userID]
	idx := -1
	for i, f := range list {
		if f.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, errs.ErrNotFound
	}

	var detached int64
	for _, o := range r.s.outfits[userID] {
		if o.FolderID != nil && *o.FolderID == id {
			o.FolderID = nil
			detached++
		}
	}
	r.s.folders[userID] = append(list[:idx:idx], list[idx+1:]...)
	return detached, nil
}

type memoryPlanner struct{ s *MemoryStore }

func (r memoryPlanner) GetWeek(_ context.Context, userID string) ([]models.PlannedDay, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	week := models.EmptyWeek()
	stored := r.s.planner[userID]
	for i, d := range week {
		if slot, ok := stored[d.Day]; ok {
			if slot.OutfitID != nil {
				id := *slot.OutfitID
				slot.OutfitID = &id
			}
			week[i] = slot
		}
	}
	return week, nil
}

func (r memoryPlanner) SetDay(_ context.Context, userID string, day models.PlannedDay) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.planner[userID] == nil {
		r.s.planner[userID] = make(map[models.Weekday]models.PlannedDay)
	}
	if day.OutfitID != nil {
		id := *day.OutfitID
		day.OutfitID = &id
	}
	r.s.planner[userID][day.Day] = day
	return nil
}
