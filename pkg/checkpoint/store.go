package checkpoint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/stackmotion/internal/fsutil"
	"github.com/matzehuels/stackmotion/pkg/errors"
	"github.com/matzehuels/stackmotion/pkg/scene"
)

// Status describes what is persisted for a transition.
type Status int

const (
	// Absent means no committed checkpoint. States left by an unfinished
	// commit may exist and are overwritten by the next Save.
	Absent Status = iota
	// Present means the commit marker and both states exist.
	Present
	// Corrupt means the commit marker exists but a state is missing.
	Corrupt
)

func (s Status) String() string {
	switch s {
	case Absent:
		return "absent"
	case Present:
		return "present"
	case Corrupt:
		return "corrupt"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Checkpoint is a persisted pre/goal pair.
type Checkpoint struct {
	Index int
	Pre   scene.State
	Goal  scene.State
}

// Digest returns a SHA-256 over both serialized states. Two checkpoints with
// the same digest describe the same transition.
func (c Checkpoint) Digest() string {
	pre, _ := scene.Marshal(c.Pre)
	goal, _ := scene.Marshal(c.Goal)
	h := sha256.New()
	h.Write(pre)
	h.Write([]byte{0})
	h.Write(goal)
	return hex.EncodeToString(h.Sum(nil))
}

// commit is the content of the commit marker.
type commit struct {
	Digest string `json:"digest"`
}

// Store reads and writes checkpoints under a Layout.
type Store struct {
	layout Layout
}

// NewStore creates a store for the given layout.
func NewStore(l Layout) *Store {
	return &Store{layout: l}
}

// Layout returns the store's layout.
func (s *Store) Layout() Layout { return s.layout }

// Probe reports whether transition i is committed without reading the
// states.
func (s *Store) Probe(i int) (Status, error) {
	committed, err := exists(s.layout.CommitPath(i))
	if err != nil {
		return Absent, errors.Wrap(errors.ErrCodeInternal, err, "stat commit marker")
	}
	if !committed {
		return Absent, nil
	}
	pre, err := exists(s.layout.PrePath(i))
	if err != nil {
		return Absent, errors.Wrap(errors.ErrCodeInternal, err, "stat pre state")
	}
	goal, err := exists(s.layout.GoalPath(i))
	if err != nil {
		return Absent, errors.Wrap(errors.ErrCodeInternal, err, "stat goal state")
	}
	if pre && goal {
		return Present, nil
	}
	return Corrupt, nil
}

// Resolve loads the checkpoint of transition i. It returns found=false when
// nothing is committed, and a CORRUPT_CHECKPOINT error when a committed state
// is missing, fails to decode, or no longer matches the commit digest.
func (s *Store) Resolve(i int) (cp Checkpoint, found bool, err error) {
	status, err := s.Probe(i)
	if err != nil {
		return Checkpoint{}, false, err
	}
	switch status {
	case Absent:
		return Checkpoint{}, false, nil
	case Corrupt:
		return Checkpoint{}, false, errors.New(errors.ErrCodeCorruptCheckpoint,
			"%s exists but %s or %s is missing", filepath.Base(s.layout.CommitPath(i)),
			filepath.Base(s.layout.PrePath(i)), filepath.Base(s.layout.GoalPath(i)))
	}

	pre, err := readState(s.layout.PrePath(i))
	if err != nil {
		return Checkpoint{}, false, err
	}
	goal, err := readState(s.layout.GoalPath(i))
	if err != nil {
		return Checkpoint{}, false, err
	}
	if err := scene.CheckPairing(pre, goal); err != nil {
		return Checkpoint{}, false, errors.Wrap(errors.ErrCodeCorruptCheckpoint, err, "persisted states do not pair")
	}
	cp = Checkpoint{Index: i, Pre: pre, Goal: goal}

	marker, err := readCommit(s.layout.CommitPath(i))
	if err != nil {
		return Checkpoint{}, false, err
	}
	if digest := cp.Digest(); marker.Digest != digest {
		return Checkpoint{}, false, errors.New(errors.ErrCodeCorruptCheckpoint,
			"states changed after commit (digest %.12s, committed %.12s)", digest, marker.Digest)
	}
	return cp, true, nil
}

// Save persists both halves of a transition as one unit. Both states and
// the commit marker are staged and synced first; the states are renamed
// into place, and the marker last. A crash or I/O error before the marker
// rename leaves the transition Absent.
func (s *Store) Save(cp Checkpoint) error {
	i := cp.Index
	if err := s.layout.Ensure(i); err != nil {
		return err
	}

	pre, err := scene.Marshal(cp.Pre)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal pre state")
	}
	goal, err := scene.Marshal(cp.Goal)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal goal state")
	}
	marker, err := json.Marshal(commit{Digest: cp.Digest()})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal commit marker")
	}

	// Uncommit first so a replaced pair is never paired with an old marker.
	if err := removeIfExists(s.layout.CommitPath(i)); err != nil {
		return errors.Wrap(errors.ErrCodeArtifactWrite, err, "remove old commit marker")
	}

	dir := s.layout.SceneDir(i)
	staged := make([]string, 0, 3)
	defer func() {
		for _, p := range staged {
			os.Remove(p)
		}
	}()
	for _, data := range [][]byte{pre, goal, marker} {
		tmp, err := fsutil.Stage(dir, ".json", data)
		if err != nil {
			return errors.Wrap(errors.ErrCodeArtifactWrite, err, "stage checkpoint")
		}
		staged = append(staged, tmp)
	}

	if err := os.Rename(staged[0], s.layout.PrePath(i)); err != nil {
		return errors.Wrap(errors.ErrCodeArtifactWrite, err, "commit pre state")
	}
	if err := os.Rename(staged[1], s.layout.GoalPath(i)); err != nil {
		os.Remove(s.layout.PrePath(i))
		return errors.Wrap(errors.ErrCodeArtifactWrite, err, "commit goal state")
	}
	fsutil.SyncDir(dir)
	if err := os.Rename(staged[2], s.layout.CommitPath(i)); err != nil {
		os.Remove(s.layout.PrePath(i))
		os.Remove(s.layout.GoalPath(i))
		return errors.Wrap(errors.ErrCodeArtifactWrite, err, "write commit marker")
	}
	fsutil.SyncDir(dir)
	return nil
}

// Discard removes transition i's checkpoint, marker first. Rendered frames
// are left untouched. It is the operator's explicit way out of a corrupt
// checkpoint.
func (s *Store) Discard(i int) error {
	for _, p := range []string{s.layout.CommitPath(i), s.layout.PrePath(i), s.layout.GoalPath(i)} {
		if err := removeIfExists(p); err != nil {
			return errors.Wrap(errors.ErrCodeArtifactWrite, err, "remove %s", p)
		}
	}
	return nil
}

func readState(path string) (scene.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scene.State{}, errors.Wrap(errors.ErrCodeCorruptCheckpoint, err, "read %s", filepath.Base(path))
	}
	st, err := scene.Unmarshal(data)
	if err != nil {
		return scene.State{}, errors.Wrap(errors.ErrCodeCorruptCheckpoint, err, "decode %s", filepath.Base(path))
	}
	return st, nil
}

func readCommit(path string) (commit, error) {
	var c commit
	data, err := os.ReadFile(path)
	if err != nil {
		return c, errors.Wrap(errors.ErrCodeCorruptCheckpoint, err, "read %s", filepath.Base(path))
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, errors.Wrap(errors.ErrCodeCorruptCheckpoint, err, "decode %s", filepath.Base(path))
	}
	return c, nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
