package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/prairielab/credence/internal/model"
)

// Dataset is one loaded set of export files, indexed by creator for the
// per-creator scoring path. Slices preserve file order so audit breakdowns
// replay deterministically.
type Dataset struct {
	Creators  []model.Creator
	Evidence  map[string][]model.Evidence
	Snapshots map[string][]model.PlatformSnapshot
	Business  map[string]*model.BusinessRecord
}

// Creator returns the creator row for an ID, or nil
func (d *Dataset) Creator(id string) *model.Creator {
	for i := range d.Creators {
		if d.Creators[i].ID == id {
			return &d.Creators[i]
		}
	}
	return nil
}

// Export file names within the data directory
const (
	creatorsFile = "creators.csv"
	evidenceFile = "evidence.csv"
	metricsFile  = "metrics.csv"
	businessFile = "business.csv"
)

// LoadDataset reads the export CSVs from dir. Metrics and business files are
// optional; creators and evidence are not.
func LoadDataset(dir string) (*Dataset, error) {
	ds := &Dataset{
		Evidence:  make(map[string][]model.Evidence),
		Snapshots: make(map[string][]model.PlatformSnapshot),
		Business:  make(map[string]*model.BusinessRecord),
	}

	creators, err := readCSV(filepath.Join(dir, creatorsFile))
	if err != nil {
		return nil, fmt.Errorf("load creators: %w", err)
	}
	for _, row := range creators {
		creator, err := parseCreator(row)
		if err != nil {
			return nil, fmt.Errorf("load creators: %w", err)
		}
		ds.Creators = append(ds.Creators, creator)
	}

	evidence, err := readCSV(filepath.Join(dir, evidenceFile))
	if err != nil {
		return nil, fmt.Errorf("load evidence: %w", err)
	}
	for _, row := range evidence {
		ev, err := parseEvidence(row)
		if err != nil {
			return nil, fmt.Errorf("load evidence: %w", err)
		}
		ds.Evidence[ev.CreatorID] = append(ds.Evidence[ev.CreatorID], ev)
	}

	snapshots, err := readOptionalCSV(filepath.Join(dir, metricsFile))
	if err != nil {
		return nil, fmt.Errorf("load metrics: %w", err)
	}
	for _, row := range snapshots {
		snap, err := parseSnapshot(row)
		if err != nil {
			return nil, fmt.Errorf("load metrics: %w", err)
		}
		ds.Snapshots[snap.CreatorID] = append(ds.Snapshots[snap.CreatorID], snap)
	}

	business, err := readOptionalCSV(filepath.Join(dir, businessFile))
	if err != nil {
		return nil, fmt.Errorf("load business: %w", err)
	}
	for _, row := range business {
		rec := parseBusiness(row)
		ds.Business[rec.CreatorID] = &rec
	}

	return ds, nil
}

// row is one CSV record with header-based field access
type row map[string]string

func (r row) get(field string) string {
	return strings.TrimSpace(r[field])
}

func readCSV(path string) ([]row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	rows := make([]row, 0, len(records)-1)
	for _, record := range records[1:] {
		r := make(row, len(header))
		for i, field := range header {
			if i < len(record) {
				r[strings.TrimSpace(field)] = record[i]
			}
		}
		rows = append(rows, r)
	}
	return rows, nil
}

func readOptionalCSV(path string) ([]row, error) {
	rows, err := readCSV(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	return rows, err
}

func parseCreator(r row) (model.Creator, error) {
	creator := model.Creator{
		ID:                r.get("creator_id"),
		State:             model.State(r.get("state")),
		Region:            r.get("city_region"),
		PrimaryPlatform:   model.Platform(r.get("primary_platform")),
		VerificationLevel: model.ConfidenceLevel(r.get("verification_level")),
	}
	if types := r.get("content_types"); types != "" {
		creator.ContentTypes = splitList(types)
	}
	if conf := r.get("verification_confidence"); conf != "" {
		v, err := strconv.ParseFloat(conf, 64)
		if err != nil {
			return model.Creator{}, fmt.Errorf("creator %s: verification_confidence: %w", creator.ID, err)
		}
		creator.VerificationConfidence = v
	}
	var err error
	if creator.FirstActive, err = parseOptionalTime(r.get("first_active")); err != nil {
		return model.Creator{}, fmt.Errorf("creator %s: first_active: %w", creator.ID, err)
	}
	if creator.LastActive, err = parseOptionalTime(r.get("last_active")); err != nil {
		return model.Creator{}, fmt.Errorf("creator %s: last_active: %w", creator.ID, err)
	}
	return creator, nil
}

func parseEvidence(r row) (model.Evidence, error) {
	ev := model.Evidence{
		ID:          r.get("evidence_id"),
		CreatorID:   r.get("creator_id"),
		SignalType:  model.SignalType(r.get("signal_type")),
		Description: r.get("description"),
		Status:      model.VerificationStatus(r.get("verification_status")),
	}
	var err error
	if ev.Weight, err = parseOptionalFloat(r.get("weight")); err != nil {
		return model.Evidence{}, fmt.Errorf("evidence %s: weight: %w", ev.ID, err)
	}
	if ev.ConfidenceImpact, err = parseOptionalFloat(r.get("confidence_impact")); err != nil {
		return model.Evidence{}, fmt.Errorf("evidence %s: confidence_impact: %w", ev.ID, err)
	}
	if collected := r.get("collection_date"); collected != "" {
		d, err := model.ParseDate(collected)
		if err != nil {
			return model.Evidence{}, fmt.Errorf("evidence %s: collection_date: %w", ev.ID, err)
		}
		ev.CollectionDate = d.Time()
	}
	if ev.ExpiresAt, err = parseOptionalTime(r.get("expires_date")); err != nil {
		return model.Evidence{}, fmt.Errorf("evidence %s: expires_date: %w", ev.ID, err)
	}
	return ev, nil
}

func parseSnapshot(r row) (model.PlatformSnapshot, error) {
	snap := model.PlatformSnapshot{
		CreatorID: r.get("creator_id"),
		Platform:  model.Platform(r.get("platform")),
	}
	date, err := model.ParseDate(r.get("snapshot_date"))
	if err != nil {
		return model.PlatformSnapshot{}, fmt.Errorf("snapshot for %s: snapshot_date: %w", snap.CreatorID, err)
	}
	snap.Date = date

	if snap.Followers, err = parseOptionalFloat(r.get("followers")); err != nil {
		return model.PlatformSnapshot{}, fmt.Errorf("snapshot for %s: followers: %w", snap.CreatorID, err)
	}
	if snap.AvgLikesPost, err = parseOptionalFloat(r.get("avg_likes_post")); err != nil {
		return model.PlatformSnapshot{}, fmt.Errorf("snapshot for %s: avg_likes_post: %w", snap.CreatorID, err)
	}
	if snap.AvgCommentsPost, err = parseOptionalFloat(r.get("avg_comments_post")); err != nil {
		return model.PlatformSnapshot{}, fmt.Errorf("snapshot for %s: avg_comments_post: %w", snap.CreatorID, err)
	}
	return snap, nil
}

func parseBusiness(r row) model.BusinessRecord {
	return model.BusinessRecord{
		CreatorID:         r.get("creator_id"),
		EntityType:        r.get("business_entity"),
		AgencyAffiliation: r.get("agency_affiliation"),
		PricingVisible:    model.PricingVisibility(r.get("pricing_visible")),
		Shopfronts:        splitList(r.get("shopfronts")),
		PaymentMethods:    splitList(r.get("payment_methods")),
	}
}

// splitList parses a semicolon-separated list cell
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// parseOptionalFloat maps the empty cell to nil: absence means "not
// observed", never zero
func parseOptionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseOptionalTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return nil, err
	}
	t := d.Time()
	return &t, nil
}
