package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// RenderText produces the human-readable block used for copy/paste and
// WhatsApp sharing.
func RenderText(r Report) string {
	var b strings.Builder

	title := "Lead Report"
	switch r.GroupBy {
	case GroupByUser:
		title += " by member"
	case GroupByDay:
		title += " by day"
	}
	b.WriteString(title + "\n")

	if r.From != nil || r.To != nil {
		b.WriteString("Range: ")
		if r.From != nil {
			b.WriteString(r.From.Format("2006-01-02"))
		}
		b.WriteString(" - ")
		if r.To != nil {
			b.WriteString(r.To.Format("2006-01-02"))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, bucket := range r.Buckets {
		b.WriteString(fmt.Sprintf("*%s*\n", bucket.Label))
		writeCountsText(&b, bucket.Counts)
		b.WriteString("\n")
	}

	b.WriteString("*Overall*\n")
	writeCountsText(&b, r.Overall)

	return b.String()
}

func writeCountsText(b *strings.Builder, c Counts) {
	b.WriteString(fmt.Sprintf("Total: %d | Contacted: %d | Pending: %d\n", c.Total, c.Contacted, c.Pending))
	b.WriteString(fmt.Sprintf("Interested: %d | Not Interested: %d | Didn't Pick: %d | Callback: %d | Converted: %d\n",
		c.Interested, c.NotInterested, c.DidntPick, c.RequestedCallback, c.Converted))
	b.WriteString(fmt.Sprintf("Contact rate: %.0f%% | Interested rate: %.0f%% | Conversion: %.0f%%\n",
		c.ContactRate()*100, c.InterestedRate()*100, c.ConversionRate()*100))
}

// RenderCSV streams the report as CSV, one row per bucket plus an overall row.
func RenderCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)

	header := []string{string(r.GroupBy), "total", "contacted", "pending", "interested",
		"not_interested", "didnt_pick", "requested_callback", "converted",
		"contact_rate", "interested_rate", "conversion_rate"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, bucket := range r.Buckets {
		if err := cw.Write(countsRow(bucket.Label, bucket.Counts)); err != nil {
			return err
		}
	}
	if err := cw.Write(countsRow("overall", r.Overall)); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

func countsRow(label string, c Counts) []string {
	return []string{
		label,
		strconv.Itoa(c.Total),
		strconv.Itoa(c.Contacted),
		strconv.Itoa(c.Pending),
		strconv.Itoa(c.Interested),
		strconv.Itoa(c.NotInterested),
		strconv.Itoa(c.DidntPick),
		strconv.Itoa(c.RequestedCallback),
		strconv.Itoa(c.Converted),
		formatRate(c.ContactRate()),
		formatRate(c.InterestedRate()),
		formatRate(c.ConversionRate()),
	}
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', 4, 64)
}
