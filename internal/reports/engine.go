// Package reports computes KPI aggregates over the lead set. The engine is a
// pure function over lead facts; persistence and rendering live beside it.
package reports

import (
	"sort"
	"time"

	"leadflow_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// GroupBy selects the bucketing axis of a report.
type GroupBy string

const (
	GroupByUser GroupBy = "user"
	GroupByDay  GroupBy = "day"
)

// LeadFact is the projection of a lead the engine aggregates over.
// LastTouched is the authoritative bucketing timestamp: the date of the most
// recent note, falling back to the assignment date for leads without notes.
type LeadFact struct {
	Status         string
	AssignedTo     *uuid.UUID
	AssignedToName string
	DateAssigned   *time.Time
	LastTouched    time.Time
}

// Counts are the per-bucket status tallies.
type Counts struct {
	Total             int `json:"total"`
	Contacted         int `json:"contacted"`
	Pending           int `json:"pending"`
	Interested        int `json:"interested"`
	NotInterested     int `json:"notInterested"`
	DidntPick         int `json:"didntPick"`
	RequestedCallback int `json:"requestedCallback"`
	Converted         int `json:"converted"`
}

// ContactRate is contacted leads over all leads in the bucket.
func (c Counts) ContactRate() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Contacted) / float64(c.Total)
}

// InterestedRate is interested leads over contacted leads. Zero when nothing
// was contacted; the ratio is only meaningful past that point.
func (c Counts) InterestedRate() float64 {
	if c.Contacted == 0 {
		return 0
	}
	return float64(c.Interested) / float64(c.Contacted)
}

// ConversionRate is converted leads over contacted leads.
func (c Counts) ConversionRate() float64 {
	if c.Contacted == 0 {
		return 0
	}
	return float64(c.Converted) / float64(c.Contacted)
}

// Bucket is one aggregation row: a user or a calendar day.
type Bucket struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Counts Counts `json:"counts"`
}

// Report is the structured aggregate. Text and CSV renderings are downstream
// serializers over this object, not alternative computations.
type Report struct {
	GroupBy GroupBy    `json:"groupBy"`
	From    *time.Time `json:"from,omitempty"`
	To      *time.Time `json:"to,omitempty"`
	Buckets []Bucket   `json:"buckets"`
	Overall Counts     `json:"overall"`
}

// Aggregate buckets the facts by user or calendar day over the optional date
// range. A lead falls inside the range based on its LastTouched date, so its
// bucket can move every time it is touched. Deterministic: bucket order is
// sorted by key.
func Aggregate(facts []LeadFact, from, to *time.Time, groupBy GroupBy) Report {
	report := Report{GroupBy: groupBy, From: from, To: to}

	buckets := make(map[string]*Bucket)
	for _, fact := range facts {
		if !inRange(fact.LastTouched, from, to) {
			continue
		}

		key, label := bucketKey(fact, groupBy)
		b, ok := buckets[key]
		if !ok {
			b = &Bucket{Key: key, Label: label}
			buckets[key] = b
		}

		tally(&b.Counts, fact.Status)
		tally(&report.Overall, fact.Status)
	}

	report.Buckets = make([]Bucket, 0, len(buckets))
	for _, b := range buckets {
		report.Buckets = append(report.Buckets, *b)
	}
	sort.Slice(report.Buckets, func(i, j int) bool {
		return report.Buckets[i].Key < report.Buckets[j].Key
	})

	return report
}

func bucketKey(fact LeadFact, groupBy GroupBy) (key, label string) {
	if groupBy == GroupByDay {
		day := fact.LastTouched.Format("2006-01-02")
		return day, day
	}

	if fact.AssignedTo == nil {
		return "", "Unassigned"
	}
	return fact.AssignedTo.String(), fact.AssignedToName
}

func tally(c *Counts, status string) {
	c.Total++
	if domain.Contacted(domain.Status(status)) {
		c.Contacted++
	}

	switch domain.Status(status) {
	case domain.StatusPending:
		c.Pending++
	case domain.StatusInterested:
		c.Interested++
	case domain.StatusNotInterested:
		c.NotInterested++
	case domain.StatusDidntPick:
		c.DidntPick++
	case domain.StatusRequestedCallBack:
		c.RequestedCallback++
	case domain.StatusConverted:
		c.Converted++
	}
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(endOfDay(*to)) {
		return false
	}
	return true
}

// endOfDay widens an inclusive date bound to the end of that calendar day.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
