package atlas

import (
	"cmp"
	"log/slog"
	"slices"
)

// bucketEntry is one free rectangle inside a width bucket.
type bucketEntry struct {
	height int
	rect   Rect
}

// widthBucket holds every free rectangle of one exact width,
// sorted ascending by height.
type widthBucket struct {
	width   int
	entries []bucketEntry
}

// SpaceAllocator tracks the free space of a 2D plane as a set of
// rectangles, indexed by width and then by height for best-fit search.
//
// The allocator starts empty: seed it by calling Free with the full plane
// (and again with any newly exposed area after the plane grows). Alloc
// carves exact-size rectangles out of the tracked space and Free returns
// them, coalescing adjacent regions so that repeated alloc/free cycles do
// not fragment the index without bound.
//
// The allocator keeps no record of handed-out rectangles; the caller owns
// them and must pass the identical rectangle back to Free. Freeing a
// rectangle that overlaps space the index still considers free corrupts
// the index and is not detected.
//
// SpaceAllocator is not safe for concurrent use. It is designed for a
// single owning manager, typically confined to the thread that owns the
// backing texture.
type SpaceAllocator struct {
	buckets []widthBucket // sorted ascending by width
}

// NewSpaceAllocator creates an empty allocator with no tracked space.
func NewSpaceAllocator() *SpaceAllocator {
	return &SpaceAllocator{}
}

// Alloc reserves a width x height rectangle from the tracked free space.
// It returns the reserved rectangle, always exactly the requested size,
// and true on success. It returns false when no free region is large
// enough, which is an ordinary outcome (the caller typically grows the
// plane, seeds the new space with Free, and retries); the index is left
// unchanged in that case.
//
// The search is best-fit: the narrowest free width that can hold the
// request is tried first, and within a width the smallest sufficient
// height wins.
func (a *SpaceAllocator) Alloc(width, height int) (Rect, bool) {
	if width <= 0 || height <= 0 {
		return Rect{}, false
	}

	wi, _ := slices.BinarySearchFunc(a.buckets, width, func(b widthBucket, w int) int {
		return cmp.Compare(b.width, w)
	})
	if wi >= len(a.buckets) {
		Logger().Debug("atlas: no free region wide enough",
			slog.Int("width", width), slog.Int("height", height))
		return Rect{}, false
	}

	// Try the narrowest sufficient bucket first; if nothing in it is tall
	// enough, restart the height search in the next wider bucket.
	for ; wi < len(a.buckets); wi++ {
		entries := a.buckets[wi].entries
		hi, _ := slices.BinarySearchFunc(entries, height, func(e bucketEntry, h int) int {
			return cmp.Compare(e.height, h)
		})
		if hi >= len(entries) {
			continue
		}

		r := entries[hi].rect
		out := Rect{Left: r.Left, Top: r.Top, Right: r.Left + width, Bottom: r.Top + height}
		a.carve(out)
		return out, true
	}

	Logger().Debug("atlas: no free region fits",
		slog.Int("width", width), slog.Int("height", height))
	return Rect{}, false
}

// Free returns rect to the tracked free space and coalesces it with
// edge-adjacent free regions. rect must be a rectangle previously
// returned by Alloc, or newly available plane space being seeded.
// Freeing the identical rectangle twice is a no-op.
func (a *SpaceAllocator) Free(rect Rect) {
	if rect.Empty() {
		return
	}
	if !a.insert(rect) {
		return
	}
	a.coalesce(rect)
}

// FreeRegions returns every rectangle currently tracked as free, for
// logging and diagnostics. The result is ordered by width, then height.
func (a *SpaceAllocator) FreeRegions() []Rect {
	var out []Rect
	for _, b := range a.buckets {
		for _, e := range b.entries {
			out = append(out, e.rect)
		}
	}
	return out
}

// FreeArea returns the summed area of all tracked free rectangles.
func (a *SpaceAllocator) FreeArea() int {
	total := 0
	for _, b := range a.buckets {
		for _, e := range b.entries {
			total += e.rect.Area()
		}
	}
	return total
}

// RegionCount returns the number of tracked free rectangles.
func (a *SpaceAllocator) RegionCount() int {
	n := 0
	for _, b := range a.buckets {
		n += len(b.entries)
	}
	return n
}

// carve removes every part of the tracked space covered by out. An entry
// that equals out is removed outright; an entry that overlaps it is
// removed and replaced by its residual strips. The left and right strips
// keep the entry's full vertical extent, while the top and bottom strips
// are clamped to the carved horizontal span, so the residue is disjoint.
// The scan repeats until no entry overlaps out, which also clears any
// stale double-tracked space left behind by partial-span merges (see
// coalesce), guaranteeing that handed-out rectangles never overlap.
func (a *SpaceAllocator) carve(out Rect) {
	for {
		e, ok := a.takeOverlapping(out)
		if !ok {
			return
		}
		if e == out {
			continue
		}
		if e.Left < out.Left {
			a.insert(Rect{e.Left, e.Top, out.Left, e.Bottom})
		}
		if e.Right > out.Right {
			a.insert(Rect{out.Right, e.Top, e.Right, e.Bottom})
		}
		left := max(e.Left, out.Left)
		right := min(e.Right, out.Right)
		if e.Top < out.Top {
			a.insert(Rect{left, e.Top, right, out.Top})
		}
		if e.Bottom > out.Bottom {
			a.insert(Rect{left, out.Bottom, right, e.Bottom})
		}
	}
}

// takeOverlapping removes and returns an entry equal to or overlapping
// out, or reports that none remains.
func (a *SpaceAllocator) takeOverlapping(out Rect) (Rect, bool) {
	for wi := range a.buckets {
		for hi, e := range a.buckets[wi].entries {
			if e.rect == out || e.rect.Overlaps(out) {
				a.removeAt(wi, hi)
				return e.rect, true
			}
		}
	}
	return Rect{}, false
}

// coalesce repeatedly merges cur with an adjacent free region whose span
// along the shared edge contains cur's span, growing cur until no such
// neighbor remains. cur must already be registered. If the merged extent
// is already registered (possible when a partial-span merge left a
// region double-tracked), the existing entry stands and no duplicate is
// added, collapsing the redundant coverage into one entry.
func (a *SpaceAllocator) coalesce(cur Rect) {
	for {
		neighbor, merged, absorbed, ok := a.findMerge(cur)
		if !ok {
			return
		}
		a.remove(cur)
		if absorbed {
			a.remove(neighbor)
		}
		a.insert(merged)
		cur = merged
	}
}

// findMerge searches for a free region sharing a full edge with cur whose
// span along that edge contains cur's span. It returns the neighbor, the
// extent of cur after absorbing it, and whether the neighbor's span
// matches exactly. On an exact match the neighbor is fully consumed by
// the merge; otherwise it stays registered with its old extent, and the
// merged rectangle temporarily double-tracks the shared sliver until a
// later carve reclaims it.
func (a *SpaceAllocator) findMerge(cur Rect) (neighbor, merged Rect, absorbed, ok bool) {
	for _, b := range a.buckets {
		for _, e := range b.entries {
			r := e.rect
			if r == cur {
				continue
			}
			switch {
			case cur.Left == r.Right && r.Top <= cur.Top && cur.Bottom <= r.Bottom:
				merged = cur
				merged.Left = r.Left
				return r, merged, r.Top == cur.Top && r.Bottom == cur.Bottom, true
			case cur.Right == r.Left && r.Top <= cur.Top && cur.Bottom <= r.Bottom:
				merged = cur
				merged.Right = r.Right
				return r, merged, r.Top == cur.Top && r.Bottom == cur.Bottom, true
			case cur.Top == r.Bottom && r.Left <= cur.Left && cur.Right <= r.Right:
				merged = cur
				merged.Top = r.Top
				return r, merged, r.Left == cur.Left && r.Right == cur.Right, true
			case cur.Bottom == r.Top && r.Left <= cur.Left && cur.Right <= r.Right:
				merged = cur
				merged.Bottom = r.Bottom
				return r, merged, r.Left == cur.Left && r.Right == cur.Right, true
			}
		}
	}
	return Rect{}, Rect{}, false, false
}

// insert registers r at its sorted position, creating a width bucket if
// none has r's exact width. It reports whether r was inserted; inserting
// a rectangle that is already registered is a no-op.
func (a *SpaceAllocator) insert(r Rect) bool {
	wi, found := slices.BinarySearchFunc(a.buckets, r.Width(), func(b widthBucket, w int) int {
		return cmp.Compare(b.width, w)
	})
	if !found {
		a.buckets = slices.Insert(a.buckets, wi, widthBucket{
			width:   r.Width(),
			entries: []bucketEntry{{height: r.Height(), rect: r}},
		})
		return true
	}

	b := &a.buckets[wi]
	hi, _ := slices.BinarySearchFunc(b.entries, r.Height(), func(e bucketEntry, h int) int {
		return cmp.Compare(e.height, h)
	})
	for i := hi; i < len(b.entries) && b.entries[i].height == r.Height(); i++ {
		if b.entries[i].rect == r {
			return false
		}
	}
	b.entries = slices.Insert(b.entries, hi, bucketEntry{height: r.Height(), rect: r})
	return true
}

// remove unregisters the entry equal to r. Removing a rectangle that is
// not registered is a no-op.
func (a *SpaceAllocator) remove(r Rect) {
	wi, found := slices.BinarySearchFunc(a.buckets, r.Width(), func(b widthBucket, w int) int {
		return cmp.Compare(b.width, w)
	})
	if !found {
		return
	}
	for hi, e := range a.buckets[wi].entries {
		if e.rect == r {
			a.removeAt(wi, hi)
			return
		}
	}
}

// removeAt deletes entry hi of bucket wi, dropping the bucket when it
// empties.
func (a *SpaceAllocator) removeAt(wi, hi int) {
	b := &a.buckets[wi]
	b.entries = slices.Delete(b.entries, hi, hi+1)
	if len(b.entries) == 0 {
		a.buckets = slices.Delete(a.buckets, wi, wi+1)
	}
}
