package claim

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/stackmotion/pkg/checkpoint"
	"github.com/matzehuels/stackmotion/pkg/errors"
)

// FileClaimer claims transitions by exclusively creating a claim file in the
// transition's scene directory. Claims older than the TTL are considered
// abandoned by a crashed worker and are taken over.
type FileClaimer struct {
	layout checkpoint.Layout
	ttl    time.Duration
	owner  string
	now    func() time.Time
}

// record is the content of a claim file.
type record struct {
	Owner     string    `json:"owner"`
	Host      string    `json:"host,omitempty"`
	PID       int       `json:"pid"`
	ClaimedAt time.Time `json:"claimed_at"`
}

// NewFile creates a file claimer. A ttl <= 0 means claims never go stale.
func NewFile(layout checkpoint.Layout, ttl time.Duration) *FileClaimer {
	return &FileClaimer{
		layout: layout,
		ttl:    ttl,
		owner:  uuid.NewString(),
		now:    time.Now,
	}
}

// Owner returns the token written into this claimer's claim files.
func (c *FileClaimer) Owner() string { return c.owner }

// Claim creates the claim file for index.
func (c *FileClaimer) Claim(ctx context.Context, index int) (Release, error) {
	if err := c.layout.Ensure(index); err != nil {
		return nil, err
	}
	path := c.layout.ClaimPath(index)

	// One retry after a claim vanished or was taken over.
	for attempt := 0; attempt < 2; attempt++ {
		err := c.create(path)
		if err == nil {
			return c.release(path), nil
		}
		if !os.IsExist(err) {
			return nil, errors.Wrap(errors.ErrCodeArtifactWrite, err, "create claim file")
		}

		held, readErr := readRecord(path)
		if readErr != nil {
			// Vanished between create and read, or half written: try again.
			continue
		}
		if !c.stale(held) {
			return nil, errors.New(errors.ErrCodeClaimed, "transition %d claimed by %s since %s",
				index, held.Owner, held.ClaimedAt.Format(time.RFC3339))
		}
		won, err := c.takeOver(path, held)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeArtifactWrite, err, "take over stale claim")
		}
		if !won {
			return nil, errors.New(errors.ErrCodeClaimed, "transition %d: stale claim taken over by another worker", index)
		}
		if err := c.create(path); err != nil {
			if os.IsExist(err) {
				return nil, errors.New(errors.ErrCodeClaimed, "transition %d: claim contended", index)
			}
			return nil, errors.Wrap(errors.ErrCodeArtifactWrite, err, "create claim file")
		}
		return c.release(path), nil
	}
	return nil, errors.New(errors.ErrCodeClaimed, "transition %d: claim contended", index)
}

func (c *FileClaimer) stale(rec record) bool {
	return c.ttl > 0 && c.now().Sub(rec.ClaimedAt) >= c.ttl
}

// takeOver moves the stale claim at path to a tombstone owned by this
// claimer. Only one worker can rename a given file, so a loser sees ENOENT.
// If the renamed file is not the stale record that was judged, another
// worker already replaced it; the file is linked back and takeOver reports
// false.
func (c *FileClaimer) takeOver(path string, judged record) (bool, error) {
	tomb := path + ".stale-" + c.owner
	if err := os.Rename(path, tomb); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	defer os.Remove(tomb)

	moved, err := readRecord(tomb)
	if err == nil && moved.Owner == judged.Owner && moved.ClaimedAt.Equal(judged.ClaimedAt) {
		return true, nil
	}
	// Link fails without clobbering if a newer claim already exists.
	if err := os.Link(tomb, path); err != nil && !os.IsExist(err) {
		return false, err
	}
	return false, nil
}

func (c *FileClaimer) create(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	host, _ := os.Hostname()
	rec := record{Owner: c.owner, Host: host, PID: os.Getpid(), ClaimedAt: c.now().UTC()}
	if err := json.NewEncoder(f).Encode(rec); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// release removes the claim file only if this claimer still owns it.
func (c *FileClaimer) release(path string) Release {
	return func(ctx context.Context) error {
		held, err := readRecord(path)
		if os.IsNotExist(err) {
			return nil
		}
		if err != nil {
			return err
		}
		if held.Owner != c.owner {
			return nil
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
}

func readRecord(path string) (record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return record{}, err
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return record{}, err
	}
	return rec, nil
}

// Ensure FileClaimer implements Claimer.
var _ Claimer = (*FileClaimer)(nil)
