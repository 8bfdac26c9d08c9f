package channel

import (
	"log/slog"
	"sync"

	"github.com/dmitrymomot/notifyhub/pkg/notification"
)

// Registry maps channel tags to senders. A fresh registry installs a
// LogSender for every known tag, so resolution is total over the tag set
// before any provider is wired in.
type Registry struct {
	mu       sync.RWMutex
	senders  map[Tag]Sender
	recorder notification.Recorder
	log      *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the logger used by the registry and its
// default senders.
func WithRegistryLogger(log *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// WithRegistryRecorder sets the recorder that every sender resolved
// through the registry reports delivery events to.
func WithRegistryRecorder(rec notification.Recorder) RegistryOption {
	return func(r *Registry) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// NewRegistry creates a registry with logging senders preinstalled for
// all known tags.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		senders:  make(map[Tag]Sender, len(All())),
		recorder: notification.NoopRecorder{},
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	for _, tag := range All() {
		r.senders[tag] = r.wrap(tag, NewLogSender(tag, WithLogSenderLogger(r.log)))
	}
	return r
}

func (r *Registry) wrap(tag Tag, s Sender) Sender {
	return recordedSender{
		tag:      tag,
		next:     s,
		recorder: r.recorder,
		log:      r.log,
	}
}

// Register installs a sender for the given tag, replacing the previous
// one. Tags outside the known set and nil senders are rejected.
func (r *Registry) Register(tag Tag, s Sender) error {
	if s == nil {
		return ErrNilSender
	}
	parsed, err := ParseTag(tag.String())
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.senders[parsed] = r.wrap(parsed, s)
	return nil
}

// Resolve maps a preferred tag to its sender. Matching is
// case-insensitive and ignores surrounding whitespace; tags outside the
// known set yield ErrUnknownChannel carrying the raw input.
func (r *Registry) Resolve(rawTag string) (Sender, error) {
	tag, err := ParseTag(rawTag)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.senders[tag]
	if !ok {
		return nil, ErrUnknownChannel{Tag: rawTag}
	}
	return s, nil
}

// Tags returns the registered tags in canonical order.
func (r *Registry) Tags() []Tag {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags := make([]Tag, 0, len(r.senders))
	for _, tag := range All() {
		if _, ok := r.senders[tag]; ok {
			tags = append(tags, tag)
		}
	}
	return tags
}
