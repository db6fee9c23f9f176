// Package directory maintains the persistent bidder name directory: a JSON
// file mapping bidder name to address and usage history, updated in place
// whenever a bid round is committed.
package directory

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pwd-tools/tender-cli/internal/dateparse"
	"github.com/pwd-tools/tender-cli/internal/model"
)

// Entry is one bidder's directory record.
type Entry struct {
	Address      string `json:"address"`
	DateAdded    string `json:"date_added"` // DD-MM-YY
	LastUsed     string `json:"last_used"`  // DD-MM-YY
	TotalTenders int    `json:"total_tenders"`
}

// Directory is a file-backed bidder directory. Loads read the whole file;
// commits rewrite it atomically, so a crash mid-commit leaves the previous
// version intact.
type Directory struct {
	path    string
	entries map[string]Entry
}

// Open loads the directory at path. A missing file yields an empty directory;
// it is created on first commit.
func Open(path string) (*Directory, error) {
	d := &Directory{path: path, entries: make(map[string]Entry)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return d, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "directory: read %s", path)
	}
	if err := json.Unmarshal(data, &d.entries); err != nil {
		return nil, eris.Wrapf(err, "directory: decode %s", path)
	}
	return d, nil
}

// Len reports the number of registered bidders.
func (d *Directory) Len() int { return len(d.entries) }

// Get returns a bidder's entry by exact name.
func (d *Directory) Get(name string) (Entry, bool) {
	e, ok := d.entries[name]
	return e, ok
}

// Names returns all bidder names, sorted.
func (d *Directory) Names() []string {
	names := make([]string, 0, len(d.entries))
	for n := range d.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Search returns the names containing term, case-insensitively, sorted.
func (d *Directory) Search(term string) []string {
	term = strings.ToLower(term)
	var out []string
	for n := range d.entries {
		if strings.Contains(strings.ToLower(n), term) {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// Suggest returns up to limit names starting with the given prefix,
// case-insensitively, for operator auto-completion.
func (d *Directory) Suggest(prefix string, limit int) []string {
	prefix = strings.ToLower(prefix)
	var out []string
	for _, n := range d.Names() {
		if strings.HasPrefix(strings.ToLower(n), prefix) {
			out = append(out, n)
			if len(out) >= limit {
				break
			}
		}
	}
	return out
}

// Commit folds a committed bid round into the directory and persists it:
// known bidders get their last-used date refreshed and tender count bumped,
// new bidders are inserted. The write is all-or-nothing.
func (d *Directory) Commit(bids model.BidSet, now string) error {
	for _, b := range bids {
		if e, ok := d.entries[b.BidderName]; ok {
			e.LastUsed = now
			e.TotalTenders++
			if e.Address == "" {
				e.Address = b.BidderAddress
			}
			d.entries[b.BidderName] = e
			continue
		}
		d.entries[b.BidderName] = Entry{
			Address:      b.BidderAddress,
			DateAdded:    now,
			LastUsed:     now,
			TotalTenders: 1,
		}
	}

	if err := d.persist(); err != nil {
		return err
	}

	zap.L().Info("directory: committed bid round",
		zap.Int("bidders", len(bids)),
		zap.Int("total", len(d.entries)),
		zap.String("path", d.path),
	)
	return nil
}

// persist writes the full directory to a temp file in the same directory and
// renames it over the target.
func (d *Directory) persist() error {
	data, err := json.MarshalIndent(d.entries, "", "  ")
	if err != nil {
		return eris.Wrap(err, "directory: encode")
	}

	dir := filepath.Dir(d.path)
	tmp, err := os.CreateTemp(dir, ".bidders-*.json")
	if err != nil {
		return eris.Wrapf(err, "directory: temp file in %s", dir)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return eris.Wrap(err, "directory: write temp")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return eris.Wrap(err, "directory: close temp")
	}
	if err := os.Rename(tmpName, d.path); err != nil {
		os.Remove(tmpName)
		return eris.Wrapf(err, "directory: rename to %s", d.path)
	}
	return nil
}

// Stats summarizes the directory for the operator.
type Stats struct {
	TotalBidders int    `json:"total_bidders"`
	MostUsed     string `json:"most_used"`
	LastUpdated  string `json:"last_updated"`
}

// Summary computes directory statistics. LastUpdated is the latest last-used
// date across all entries.
func (d *Directory) Summary() Stats {
	s := Stats{TotalBidders: len(d.entries)}

	best := -1
	var latest time.Time
	for name, e := range d.entries {
		if e.TotalTenders > best || (e.TotalTenders == best && name < s.MostUsed) {
			best = e.TotalTenders
			s.MostUsed = name
		}
		if t, ok := dateparse.ParseString(e.LastUsed); ok && t.After(latest) {
			latest = t
			s.LastUpdated = e.LastUsed
		}
	}
	return s
}
