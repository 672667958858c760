package scraper

import (
	"errors"
	"strings"
)

// SearchQuery is what the collector types into the search form.
type SearchQuery struct {
	Title    string
	Location string
}

func NewSearchQuery(title, location string) (SearchQuery, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return SearchQuery{}, errors.New("job title is required")
	}
	return SearchQuery{Title: title, Location: strings.TrimSpace(location)}, nil
}

// Record is one scraped job card.
type Record struct {
	Title      string `json:"job_title"`
	Subtitle   string `json:"job_subtitle"`
	Location   string `json:"location"`
	DatePosted string `json:"date_posted"`
}

// Field names used when reporting incomplete records.
const (
	FieldTitle      = "title"
	FieldSubtitle   = "subtitle"
	FieldLocation   = "location"
	FieldDatePosted = "date_posted"
)

// Missing marks a field that fell back to an empty value during extraction.
type Missing struct {
	Index int    `json:"index"`
	Field string `json:"field"`
}

// ResultSet keeps records in page order. Records are only ever appended whole.
type ResultSet struct {
	records []Record
}

func NewResultSet(records ...Record) *ResultSet {
	rs := &ResultSet{}
	for _, r := range records {
		rs.Append(r)
	}
	return rs
}

func (rs *ResultSet) Append(r Record) {
	rs.records = append(rs.records, r)
}

func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.records)
}

// Records returns a copy of the records.
func (rs *ResultSet) Records() []Record {
	if rs == nil {
		return nil
	}
	out := make([]Record, len(rs.records))
	copy(out, rs.records)
	return out
}

// Columns returns the four parallel field columns.
func (rs *ResultSet) Columns() (titles, subtitles, locations, dates []string) {
	n := rs.Len()
	titles = make([]string, 0, n)
	subtitles = make([]string, 0, n)
	locations = make([]string, 0, n)
	dates = make([]string, 0, n)
	if rs == nil {
		return
	}
	for _, r := range rs.records {
		titles = append(titles, r.Title)
		subtitles = append(subtitles, r.Subtitle)
		locations = append(locations, r.Location)
		dates = append(dates, r.DatePosted)
	}
	return
}
