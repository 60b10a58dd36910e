package batch

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/resale-labs/lister/internal/models"
	"github.com/resale-labs/lister/internal/photos"
)

var (
	// ErrNoPhotos is returned when an assignment names no photos.
	ErrNoPhotos = errors.New("no photos selected")
	// ErrEmptySKU is returned when an assignment has a blank SKU.
	ErrEmptySKU = errors.New("sku must not be empty")
)

// UnknownPhotoError reports a photo identifier that was never uploaded to
// this batch.
type UnknownPhotoError struct {
	Hash string
}

func (e *UnknownPhotoError) Error() string {
	return fmt.Sprintf("unknown photo %q", e.Hash)
}

// DuplicatePhotoError reports an attempt to assign a photo that already
// belongs to a group.
type DuplicatePhotoError struct {
	Hash string
	SKU  string
}

func (e *DuplicatePhotoError) Error() string {
	return fmt.Sprintf("photo %q already assigned to SKU %q", e.Hash, e.SKU)
}

// Batch holds one working session: the uploaded photos, the SKU grouping
// ledger and the draft records produced by inference. Photos are partitioned
// at all times: every photo is either in exactly one group or unassigned.
type Batch struct {
	ID        string
	CreatedAt time.Time

	mu         sync.RWMutex
	photos     map[string]photos.Photo
	order      []string
	groups     map[string][]string
	skuOf      map[string]string
	unassigned map[string]struct{}
	drafts     map[string]models.AttributeRecord
}

// New creates an empty batch.
func New(id string) *Batch {
	return &Batch{
		ID:         id,
		CreatedAt:  time.Now(),
		photos:     make(map[string]photos.Photo),
		groups:     make(map[string][]string),
		skuOf:      make(map[string]string),
		unassigned: make(map[string]struct{}),
		drafts:     make(map[string]models.AttributeRecord),
	}
}

// AddPhoto registers an ingested photo as unassigned. Re-uploading
// byte-identical content is a no-op; the photo keeps its first filename.
func (b *Batch) AddPhoto(p photos.Photo) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.photos[p.Hash]; exists {
		return
	}
	b.photos[p.Hash] = p
	b.order = append(b.order, p.Hash)
	b.unassigned[p.Hash] = struct{}{}
}

// Assign moves the given photos out of the unassigned set into the SKU's
// group. Assigning to an existing SKU appends to that group. The call is
// all-or-nothing: if any photo is unknown or already grouped, no state
// changes.
func (b *Batch) Assign(sku string, hashes []string) error {
	if sku == "" {
		return ErrEmptySKU
	}
	if len(hashes) == 0 {
		return ErrNoPhotos
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// Validate everything before mutating anything.
	seen := make(map[string]struct{}, len(hashes))
	for _, h := range hashes {
		if _, exists := b.photos[h]; !exists {
			return &UnknownPhotoError{Hash: h}
		}
		if owner, grouped := b.skuOf[h]; grouped {
			return &DuplicatePhotoError{Hash: h, SKU: owner}
		}
		if _, dup := seen[h]; dup {
			return &DuplicatePhotoError{Hash: h, SKU: sku}
		}
		seen[h] = struct{}{}
	}

	for _, h := range hashes {
		b.groups[sku] = append(b.groups[sku], h)
		b.skuOf[h] = sku
		delete(b.unassigned, h)
	}
	return nil
}

// Photo returns the photo with the given hash.
func (b *Batch) Photo(hash string) (photos.Photo, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	p, ok := b.photos[hash]
	return p, ok
}

// Photos returns all photos in upload order.
func (b *Batch) Photos() []photos.Photo {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]photos.Photo, 0, len(b.order))
	for _, h := range b.order {
		out = append(out, b.photos[h])
	}
	return out
}

// PhotosFor returns the photos assigned to a SKU, in assignment order.
func (b *Batch) PhotosFor(sku string) []photos.Photo {
	b.mu.RLock()
	defer b.mu.RUnlock()

	hashes := b.groups[sku]
	out := make([]photos.Photo, 0, len(hashes))
	for _, h := range hashes {
		out = append(out, b.photos[h])
	}
	return out
}

// Groups returns a copy of the SKU -> photo hashes mapping.
func (b *Batch) Groups() map[string][]string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make(map[string][]string, len(b.groups))
	for sku, hashes := range b.groups {
		out[sku] = append([]string(nil), hashes...)
	}
	return out
}

// SKUs returns the group SKUs in sorted order.
func (b *Batch) SKUs() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]string, 0, len(b.groups))
	for sku := range b.groups {
		out = append(out, sku)
	}
	sort.Strings(out)
	return out
}

// Unassigned returns the hashes not yet assigned to any group, in upload
// order.
func (b *Batch) Unassigned() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]string, 0, len(b.unassigned))
	for _, h := range b.order {
		if _, ok := b.unassigned[h]; ok {
			out = append(out, h)
		}
	}
	return out
}

// UnassignedCount returns the number of photos not yet in any group.
func (b *Batch) UnassignedCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.unassigned)
}

// PhotoCount returns the total number of photos uploaded to this batch.
func (b *Batch) PhotoCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.photos)
}

// SetDraft stores the inferred record for a SKU so a later review pass can
// diff human edits against it.
func (b *Batch) SetDraft(sku string, rec models.AttributeRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.drafts[sku] = rec
}

// Draft returns the inferred record previously stored for a SKU.
func (b *Batch) Draft(sku string) (models.AttributeRecord, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	rec, ok := b.drafts[sku]
	return rec, ok
}
