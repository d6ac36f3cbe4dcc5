package analytics

import (
	"sort"
	"strings"

	"github.com/abhms/alter/internal/model"
)

const (
	// DateLayout is the bucket format for clicks-by-date. Buckets use UTC.
	DateLayout = "2006-01-02"

	// RecentDays caps the date history for alias and owner snapshots.
	RecentDays = 7

	DeviceMobile  = "Mobile"
	DeviceDesktop = "Desktop"
)

// DateOrder controls the order of date buckets in the output.
type DateOrder int

const (
	NewestFirst DateOrder = iota
	OldestFirst
)

// AggregateAlias builds the snapshot for a single alias.
// Only the most recent RecentDays dates are kept, newest first.
func AggregateAlias(records []model.ClickRecord) model.AliasSnapshot {
	totalClicks, uniqueUsers := Totals(records)
	return model.AliasSnapshot{
		TotalClicks:  totalClicks,
		UniqueUsers:  uniqueUsers,
		ClicksByDate: ClicksByDate(records, RecentDays, NewestFirst),
		OSType:       ByOperatingSystem(records),
		DeviceType:   ByDevice(records),
	}
}

// AggregateTopic builds the snapshot for every alias in a topic.
// Date history is not capped. URLs follow the order of aliases.
func AggregateTopic(aliases []*model.Alias, records []model.ClickRecord) model.TopicSnapshot {
	totalClicks, uniqueUsers := Totals(records)
	return model.TopicSnapshot{
		TotalClicks:  totalClicks,
		UniqueUsers:  uniqueUsers,
		ClicksByDate: ClicksByDate(records, 0, NewestFirst),
		URLs:         ByURL(aliases, records),
	}
}

// AggregateOwner builds the snapshot for every alias a user owns.
// The most recent RecentDays dates are kept in ascending order.
func AggregateOwner(aliases []*model.Alias, records []model.ClickRecord) model.OwnerSnapshot {
	totalClicks, uniqueUsers := Totals(records)
	return model.OwnerSnapshot{
		TotalURLs:    len(aliases),
		TotalClicks:  totalClicks,
		UniqueUsers:  uniqueUsers,
		ClicksByDate: ClicksByDate(records, RecentDays, OldestFirst),
		OSType:       ByOperatingSystem(records),
		DeviceType:   ByDevice(records),
	}
}

// Totals returns the record count and the number of distinct non-empty viewers.
func Totals(records []model.ClickRecord) (int64, int64) {
	g := newGroup()
	for i := range records {
		g.add(records[i].ViewerID)
	}
	return g.clicks, g.uniqueUsers()
}

// ClicksByDate buckets records by UTC calendar date.
// When limit > 0 only the most recent limit dates are returned.
func ClicksByDate(records []model.ClickRecord, limit int, order DateOrder) []model.DateClicks {
	groups := groupBy(records, func(r *model.ClickRecord) string {
		return r.Timestamp.UTC().Format(DateLayout)
	})

	dates := make([]string, 0, len(groups))
	for date := range groups {
		dates = append(dates, date)
	}
	// DateLayout sorts lexically in chronological order.
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	if limit > 0 && len(dates) > limit {
		dates = dates[:limit]
	}
	if order == OldestFirst {
		for i, j := 0, len(dates)-1; i < j; i, j = i+1, j-1 {
			dates[i], dates[j] = dates[j], dates[i]
		}
	}

	out := make([]model.DateClicks, 0, len(dates))
	for _, date := range dates {
		g := groups[date]
		out = append(out, model.DateClicks{
			Date:        date,
			Clicks:      g.clicks,
			UniqueUsers: g.uniqueUsers(),
		})
	}
	return out
}

// ByOperatingSystem groups records by their raw user-agent string.
func ByOperatingSystem(records []model.ClickRecord) []model.OSClicks {
	groups := groupBy(records, func(r *model.ClickRecord) string {
		return r.UserAgent
	})

	out := make([]model.OSClicks, 0, len(groups))
	for _, key := range orderedKeys(groups) {
		g := groups[key]
		out = append(out, model.OSClicks{
			OSName:       key,
			UniqueClicks: g.clicks,
			UniqueUsers:  g.uniqueUsers(),
		})
	}
	return out
}

// ByDevice groups records into Mobile and Desktop.
func ByDevice(records []model.ClickRecord) []model.DeviceClicks {
	groups := groupBy(records, func(r *model.ClickRecord) string {
		return DeviceClass(r.UserAgent)
	})

	out := make([]model.DeviceClicks, 0, len(groups))
	for _, key := range orderedKeys(groups) {
		g := groups[key]
		out = append(out, model.DeviceClicks{
			DeviceName:   key,
			UniqueClicks: g.clicks,
			UniqueUsers:  g.uniqueUsers(),
		})
	}
	return out
}

// ByURL counts clicks and viewers for each alias. Aliases without clicks
// are reported with zero counts.
func ByURL(aliases []*model.Alias, records []model.ClickRecord) []model.URLClicks {
	groups := groupBy(records, func(r *model.ClickRecord) string {
		return r.ShortURL
	})

	out := make([]model.URLClicks, 0, len(aliases))
	for _, a := range aliases {
		entry := model.URLClicks{ShortURL: a.ShortURL}
		if g, ok := groups[a.ShortURL]; ok {
			entry.TotalClicks = g.clicks
			entry.UniqueUsers = g.uniqueUsers()
		}
		out = append(out, entry)
	}
	return out
}

// DeviceClass reports "Mobile" when the user agent contains "Mobile"
// (case-sensitive) and "Desktop" otherwise.
func DeviceClass(userAgent string) string {
	if strings.Contains(userAgent, DeviceMobile) {
		return DeviceMobile
	}
	return DeviceDesktop
}
