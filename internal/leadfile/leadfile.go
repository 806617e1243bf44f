// Package leadfile reads lead batches from JSON, CSV and XLSX files.
package leadfile

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-qualifier/internal/model"
)

// Read loads leads from path, choosing the format by extension.
func Read(ctx context.Context, path string) ([]model.LeadInput, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "leadfile: open %s", path)
		}
		defer f.Close() //nolint:errcheck
		return ReadJSON(f)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "leadfile: open %s", path)
		}
		defer f.Close() //nolint:errcheck
		return ReadCSV(ctx, f)
	case ".xlsx":
		return ReadXLSX(ctx, path, XLSXOptions{})
	default:
		return nil, eris.Errorf("leadfile: unsupported file type %q", ext)
	}
}

// ReadJSON decodes a JSON array of leads.
func ReadJSON(r io.Reader) ([]model.LeadInput, error) {
	var leads []model.LeadInput
	if err := json.NewDecoder(r).Decode(&leads); err != nil {
		return nil, eris.Wrap(err, "leadfile: decode json")
	}
	return leads, nil
}

// columnAliases maps normalized header names onto lead fields.
var columnAliases = map[string]string{
	"id":                 "id",
	"lead_id":            "id",
	"name":               "name",
	"full_name":          "name",
	"age":                "age",
	"email":              "email",
	"email_address":      "email",
	"city":               "city",
	"state":              "state",
	"income":             "income",
	"linkedin":           "linkedin_url",
	"linkedin_url":       "linkedin_url",
	"instagram":          "instagram_username",
	"instagram_username": "instagram_username",
	"facebook":           "facebook_url",
	"facebook_url":       "facebook_url",
	"twitter":            "twitter_username",
	"twitter_username":   "twitter_username",
	"x_username":         "twitter_username",
}

// header resolves column positions from a header row. Unknown columns are
// ignored.
type header map[string]int

func parseHeader(row []string) (header, error) {
	h := make(header, len(row))
	for i, name := range row {
		key := strings.ToLower(strings.TrimSpace(name))
		key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
		field, ok := columnAliases[key]
		if !ok {
			continue
		}
		if _, dup := h[field]; !dup {
			h[field] = i
		}
	}
	if _, ok := h["id"]; !ok {
		return nil, eris.New("leadfile: header has no id column")
	}
	return h, nil
}

func (h header) get(row []string, field string) string {
	i, ok := h[field]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// lead converts one data row. line is the 1-based row number for errors.
func (h header) lead(row []string, line int) (model.LeadInput, error) {
	l := model.LeadInput{
		Name:              h.get(row, "name"),
		Email:             h.get(row, "email"),
		City:              h.get(row, "city"),
		State:             h.get(row, "state"),
		Income:            h.get(row, "income"),
		LinkedInURL:       h.get(row, "linkedin_url"),
		InstagramUsername: h.get(row, "instagram_username"),
		FacebookURL:       h.get(row, "facebook_url"),
		TwitterUsername:   h.get(row, "twitter_username"),
	}
	if v := h.get(row, "id"); v != "" {
		id, err := strconv.ParseInt(strings.TrimSuffix(v, ".0"), 10, 64)
		if err != nil {
			return l, eris.Errorf("leadfile: row %d: invalid id %q", line, v)
		}
		l.ID = id
	}
	if v := h.get(row, "age"); v != "" {
		age, err := strconv.Atoi(strings.TrimSuffix(v, ".0"))
		if err != nil {
			return l, eris.Errorf("leadfile: row %d: invalid age %q", line, v)
		}
		l.Age = age
	}
	return l, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// collect turns a header-first row stream into leads.
func collect(rows <-chan []string, errs <-chan error) ([]model.LeadInput, error) {
	var (
		h     header
		leads []model.LeadInput
		line  int
	)
	for row := range rows {
		line++
		if h == nil {
			var err error
			if h, err = parseHeader(row); err != nil {
				drain(rows)
				return nil, err
			}
			continue
		}
		if blank(row) {
			continue
		}
		l, err := h.lead(row, line)
		if err != nil {
			drain(rows)
			return nil, err
		}
		leads = append(leads, l)
	}
	if err := <-errs; err != nil {
		return nil, err
	}
	if h == nil {
		return nil, eris.New("leadfile: file is empty")
	}
	return leads, nil
}

func drain(rows <-chan []string) {
	for range rows {
	}
}
