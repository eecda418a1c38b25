package adminController

import (
	"context"
	"encoding/json"
	"time"

	. "portal/internal/models"
	"portal/internal/repositories"
)

// Summary counts one kind's records. Every legal status of the kind is
// present in ByStatus, zero when no record has it.
type Summary struct {
	Total    int64
	ByStatus map[Status]int64
}

// MarshalJSON flattens the summary to {"total": n, "<status>": n, ...}.
func (s Summary) MarshalJSON() ([]byte, error) {
	flat := make(map[string]int64, len(s.ByStatus)+1)
	flat["total"] = s.Total
	for status, count := range s.ByStatus {
		flat[string(status)] = count
	}
	return json.Marshal(flat)
}

type StatusCount struct {
	Status Status `json:"status"`
	Count  int64  `json:"count"`
}

type MonthBucket struct {
	Year  int   `json:"year"`
	Month int   `json:"month"`
	Count int64 `json:"count"`
}

type StatusDistribution struct {
	Pension       []StatusCount `json:"pension"`
	FamilyPension []StatusCount `json:"familyPension"`
	Contact       []StatusCount `json:"contact"`
}

type ApplicationsOverTime struct {
	PensionApplications       []MonthBucket `json:"pensionApplications"`
	FamilyPensionApplications []MonthBucket `json:"familyPensionApplications"`
}

type DashboardStatistics struct {
	Pension       Summary `json:"pension"`
	FamilyPension Summary `json:"familyPension"`
	Contact       Summary `json:"contact"`
}

type DashboardRecent struct {
	PensionApplications       []*PensionApplication       `json:"pensionApplications"`
	FamilyPensionApplications []*FamilyPensionApplication `json:"familyPensionApplications"`
	ContactMessages           []*ContactMessage           `json:"contactMessages"`
}

type Dashboard struct {
	Statistics DashboardStatistics `json:"statistics"`
	Recent     DashboardRecent     `json:"recent"`
}

func (c *AdminController) SummaryCounts(ctx context.Context, kind Kind) (Summary, error) {
	counts, err := c.reportRepo.CountByStatus(ctx, kind)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{ByStatus: make(map[Status]int64)}
	for _, status := range kind.Statuses() {
		summary.ByStatus[status] = counts[status]
	}
	for _, count := range counts {
		summary.Total += count
	}
	return summary, nil
}

func (c *AdminController) statusCounts(ctx context.Context, kind Kind) ([]StatusCount, error) {
	summary, err := c.SummaryCounts(ctx, kind)
	if err != nil {
		return nil, err
	}

	statuses := kind.Statuses()
	out := make([]StatusCount, 0, len(statuses))
	for _, status := range statuses {
		out = append(out, StatusCount{Status: status, Count: summary.ByStatus[status]})
	}
	return out, nil
}

func (c *AdminController) StatusDistribution(ctx context.Context) (*StatusDistribution, error) {
	log := c.log.Function("StatusDistribution")

	var dist StatusDistribution
	targets := []struct {
		kind Kind
		dest *[]StatusCount
	}{
		{KindPension, &dist.Pension},
		{KindFamilyPension, &dist.FamilyPension},
		{KindContact, &dist.Contact},
	}

	for _, target := range targets {
		counts, err := c.statusCounts(ctx, target.kind)
		if err != nil {
			return nil, log.Err("failed to count statuses", err, "kind", target.kind)
		}
		*target.dest = counts
	}

	return &dist, nil
}

// MonthlySeries buckets the kind's submissions by calendar month in the
// reporting time zone. It returns exactly months buckets, oldest first, the
// last one being the month that contains now. months <= 0 means six.
func (c *AdminController) MonthlySeries(
	ctx context.Context,
	kind Kind,
	months int,
	now time.Time,
) ([]MonthBucket, error) {
	if months <= 0 {
		months = DefaultMonths
	}

	local := now.In(c.location)
	start := time.Date(local.Year(), local.Month()-time.Month(months-1), 1, 0, 0, 0, 0, c.location)

	buckets := make([]MonthBucket, months)
	index := make(map[int]int, months)
	for i := range buckets {
		month := time.Date(start.Year(), start.Month()+time.Month(i), 1, 0, 0, 0, 0, c.location)
		buckets[i] = MonthBucket{Year: month.Year(), Month: int(month.Month())}
		index[monthKey(month)] = i
	}

	times, err := c.reportRepo.SubmissionTimes(ctx, kind, start)
	if err != nil {
		return nil, c.log.Function("MonthlySeries").Err("failed to load submission times", err, "kind", kind)
	}

	for _, t := range times {
		if i, ok := index[monthKey(t.In(c.location))]; ok {
			buckets[i].Count++
		}
	}

	return buckets, nil
}

func monthKey(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}

func (c *AdminController) ApplicationsOverTime(ctx context.Context, months int) (*ApplicationsOverTime, error) {
	now := c.now()

	pension, err := c.MonthlySeries(ctx, KindPension, months, now)
	if err != nil {
		return nil, err
	}

	family, err := c.MonthlySeries(ctx, KindFamilyPension, months, now)
	if err != nil {
		return nil, err
	}

	return &ApplicationsOverTime{
		PensionApplications:       pension,
		FamilyPensionApplications: family,
	}, nil
}

func (c *AdminController) Dashboard(ctx context.Context) (*Dashboard, error) {
	log := c.log.Function("Dashboard")

	var dashboard Dashboard
	var err error

	if dashboard.Statistics.Pension, err = c.SummaryCounts(ctx, KindPension); err != nil {
		return nil, log.Err("failed to count pension applications", err)
	}
	if dashboard.Statistics.FamilyPension, err = c.SummaryCounts(ctx, KindFamilyPension); err != nil {
		return nil, log.Err("failed to count family pension applications", err)
	}
	if dashboard.Statistics.Contact, err = c.SummaryCounts(ctx, KindContact); err != nil {
		return nil, log.Err("failed to count contact messages", err)
	}

	recent := repositories.ListFilter{Limit: DefaultRecentLimit}
	if dashboard.Recent.PensionApplications, err = c.pensionRepo.List(ctx, recent); err != nil {
		return nil, log.Err("failed to load recent pension applications", err)
	}
	if dashboard.Recent.FamilyPensionApplications, err = c.familyRepo.List(ctx, recent); err != nil {
		return nil, log.Err("failed to load recent family pension applications", err)
	}
	if dashboard.Recent.ContactMessages, err = c.contactRepo.List(ctx, recent); err != nil {
		return nil, log.Err("failed to load recent contact messages", err)
	}

	return &dashboard, nil
}
