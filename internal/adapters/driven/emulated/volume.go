package emulated

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/firmproto/internal/abi"
	"github.com/custodia-labs/firmproto/internal/core/domain"
	"github.com/custodia-labs/firmproto/internal/protocols/file"
)

// VolumeConfig configures a Volume.
type VolumeConfig struct {
	// Revision is reported by every file table of the volume.
	// Defaults to file.LatestRevision.
	Revision domain.Revision

	// Label is the volume label.
	Label string

	// ReadOnly makes the whole volume write protected.
	ReadOnly bool

	// Capacity is the number of bytes the volume can hold. Defaults to 1 MiB.
	Capacity uint64

	// BlockSize is reported in SystemInfo. Defaults to 512.
	BlockSize uint32

	// MaxWrite caps the bytes accepted by one write call, producing partial
	// writes. Zero means no cap.
	MaxWrite int

	// DeferCompletions holds asynchronous tokens until Complete is called.
	DeferCompletions bool

	// Now supplies timestamps. Defaults to time.Now.
	Now func() time.Time
}

// Volume is an in-memory file system served through file tables.
type Volume struct {
	*slots

	mu      sync.Mutex
	cfg     VolumeConfig
	label   string
	nodes   map[string]*node
	used    uint64
	pending []*pendingToken
}

type node struct {
	dir      bool
	data     []byte
	attr     file.Attribute
	created  abi.Time
	accessed abi.Time
	modified abi.Time
}

type pendingToken struct {
	finish func()
}

// NewVolume creates an empty volume with a root directory.
func NewVolume(cfg VolumeConfig) *Volume {
	if cfg.Revision == 0 {
		cfg.Revision = file.LatestRevision
	}
	if cfg.Capacity == 0 {
		cfg.Capacity = 1 << 20
	}
	if cfg.BlockSize == 0 {
		cfg.BlockSize = 512
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	v := &Volume{
		slots: newSlots(),
		cfg:   cfg,
		label: cfg.Label,
		nodes: make(map[string]*node),
	}
	now := abi.TimeFrom(cfg.Now())
	v.nodes[""] = &node{dir: true, attr: file.Directory, created: now, accessed: now, modified: now}
	return v
}

// OpenVolume returns a file table on the root directory, the way a simple
// file system provider's open-volume slot would.
func (v *Volume) OpenVolume() *FileTable {
	return &FileTable{vol: v, path: "", mode: file.ModeRead | file.ModeWrite}
}

// AddFile creates or replaces a file with data, creating parent directories.
func (v *Volume) AddFile(path string, data []byte) {
	v.mu.Lock()
	defer v.mu.Unlock()
	p := cleanPath("", path)
	v.mkdirAll(parentOf(p))
	if old, ok := v.nodes[p]; ok {
		v.used -= uint64(len(old.data))
	}
	now := abi.TimeFrom(v.cfg.Now())
	v.nodes[p] = &node{data: append([]byte(nil), data...), attr: file.Archive,
		created: now, accessed: now, modified: now}
	v.used += uint64(len(data))
}

// AddDir creates a directory and its parents.
func (v *Volume) AddDir(path string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.mkdirAll(cleanPath("", path))
}

// Contents returns a copy of a file's data.
func (v *Volume) Contents(path string) ([]byte, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	n, ok := v.nodes[cleanPath("", path)]
	if !ok || n.dir {
		return nil, false
	}
	return append([]byte(nil), n.data...), true
}

// Exists reports whether path names a file or directory.
func (v *Volume) Exists(path string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.nodes[cleanPath("", path)]
	return ok
}

// Label returns the current volume label.
func (v *Volume) Label() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.label
}

// Pending returns the number of deferred tokens not yet completed.
func (v *Volume) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.pending)
}

// Complete finishes the deferred token at index i of the pending queue and
// signals its event. It returns false when there is no such token.
func (v *Volume) Complete(i int) bool {
	v.mu.Lock()
	if i < 0 || i >= len(v.pending) {
		v.mu.Unlock()
		return false
	}
	p := v.pending[i]
	v.pending = append(v.pending[:i], v.pending[i+1:]...)
	v.mu.Unlock()

	p.finish()
	return true
}

// CompleteAll finishes every deferred token, newest first, so callers can
// check they do not depend on submission order.
func (v *Volume) CompleteAll() {
	for v.Complete(v.Pending() - 1) {
	}
}

// complete runs finish now or queues it. Caller holds v.mu.
func (v *Volume) complete(finish func()) {
	if v.cfg.DeferCompletions {
		v.pending = append(v.pending, &pendingToken{finish: finish})
		return
	}
	// finish only touches the token and its event, never v.mu.
	finish()
}

// mkdirAll creates p and its parents. Caller holds v.mu.
func (v *Volume) mkdirAll(p string) {
	if p == "" {
		return
	}
	v.mkdirAll(parentOf(p))
	if _, ok := v.nodes[p]; ok {
		return
	}
	now := abi.TimeFrom(v.cfg.Now())
	v.nodes[p] = &node{dir: true, attr: file.Directory, created: now, accessed: now, modified: now}
}

// children lists the direct children of dir, sorted. Caller holds v.mu.
func (v *Volume) children(dir string) []string {
	var out []string
	for p := range v.nodes {
		if p != "" && parentOf(p) == dir {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// info builds the Info record of p. Caller holds v.mu.
func (v *Volume) info(p string) file.Info {
	n := v.nodes[p]
	size := uint64(len(n.data))
	block := uint64(v.cfg.BlockSize)
	return file.Info{
		FileSize:         size,
		PhysicalSize:     (size + block - 1) / block * block,
		CreateTime:       n.created,
		LastAccessTime:   n.accessed,
		ModificationTime: n.modified,
		Attribute:        n.attr,
		FileName:         baseOf(p),
	}
}

// systemInfo builds the SystemInfo record. Caller holds v.mu.
func (v *Volume) systemInfo() file.SystemInfo {
	free := uint64(0)
	if v.used < v.cfg.Capacity {
		free = v.cfg.Capacity - v.used
	}
	return file.SystemInfo{
		ReadOnly:    v.cfg.ReadOnly,
		VolumeSize:  v.cfg.Capacity,
		FreeSpace:   free,
		BlockSize:   v.cfg.BlockSize,
		VolumeLabel: v.label,
	}
}

// cleanPath resolves name against the directory base. Both '\' and '/'
// separate components; a leading separator starts from the root.
func cleanPath(base, name string) string {
	name = strings.ReplaceAll(name, "/", `\`)
	var parts []string
	if !strings.HasPrefix(name, `\`) && base != "" {
		parts = strings.Split(base, `\`)
	}
	for _, c := range strings.Split(name, `\`) {
		switch c {
		case "", ".":
		case "..":
			if len(parts) > 0 {
				parts = parts[:len(parts)-1]
			}
		default:
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, `\`)
}

func parentOf(p string) string {
	if i := strings.LastIndex(p, `\`); i >= 0 {
		return p[:i]
	}
	return ""
}

func baseOf(p string) string {
	return p[strings.LastIndex(p, `\`)+1:]
}
