package roster

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/notifyhub/pkg/hub"
	"github.com/dmitrymomot/notifyhub/pkg/notification"
)

// Entry is one subscriber record in a roster file.
type Entry struct {
	Name     string   `yaml:"name"`
	Email    string   `yaml:"email"`
	Phone    string   `yaml:"phone"`
	Channels []string `yaml:"channels"`
}

// Validate checks the fields the hub requires of every subscriber.
// Channel tags are not checked here: an unrecognized tag is a
// delivery-time skip, not a roster defect.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidEntry)
	}
	if strings.TrimSpace(e.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidEntry)
	}
	return nil
}

// Roster is a parsed subscriber roster. Entry order is file order and
// is preserved through Build.
type Roster struct {
	Subscribers []Entry `yaml:"subscribers"`
}

// Parse parses and validates roster YAML. Emails must be unique across
// entries since they key hub membership.
func Parse(content []byte) (*Roster, error) {
	var r Roster
	if err := yaml.Unmarshal(content, &r); err != nil {
		return nil, errors.Join(ErrFailedToParseYAML, err)
	}
	if len(r.Subscribers) == 0 {
		return nil, ErrEmptyRoster
	}

	seen := make(map[string]int, len(r.Subscribers))
	for i, e := range r.Subscribers {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("subscriber %d: %w", i, err)
		}
		key := strings.ToLower(strings.TrimSpace(e.Email))
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: subscriber %d reuses the email of subscriber %d", ErrInvalidEntry, i, prev)
		}
		seen[key] = i
	}

	return &r, nil
}

// Load reads and parses a roster file from disk.
func Load(path string) (*Roster, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrFailedToReadFile, err)
	}
	return Parse(content)
}

// LoadFS reads and parses a roster file from fsys, for rosters shipped
// through embed.FS.
func LoadFS(fsys fs.FS, path string) (*Roster, error) {
	content, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.Join(ErrFailedToReadFile, err)
	}
	return Parse(content)
}

// Build materializes the roster into subscribers wired to the given
// resolver. Options apply to every subscriber built.
func (r *Roster) Build(resolver hub.Resolver, opts ...hub.SubscriberOption) ([]*hub.Subscriber, error) {
	subs := make([]*hub.Subscriber, 0, len(r.Subscribers))
	for i, e := range r.Subscribers {
		sub, err := hub.NewSubscriber(notification.Recipient{
			Name:  e.Name,
			Email: e.Email,
			Phone: e.Phone,
		}, e.Channels, resolver, opts...)
		if err != nil {
			return nil, fmt.Errorf("subscriber %d (%s): %w", i, e.Name, err)
		}
		subs = append(subs, sub)
	}
	return subs, nil
}
