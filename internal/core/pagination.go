package core

// TotalPages returns the number of pages needed for n records.
// It is at least 1 so an empty dataset still shows one (empty) page.
func TotalPages(n, pageSize int) int {
	if pageSize <= 0 || n <= 0 {
		return 1
	}
	return (n + pageSize - 1) / pageSize
}

// PageOf returns the records on a zero-based page.
// Out-of-range pages yield an empty slice.
func PageOf(records []Record, page, pageSize int) []Record {
	if page < 0 || pageSize <= 0 {
		return []Record{}
	}
	start := page * pageSize
	if start >= len(records) {
		return []Record{}
	}
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end:end]
}

// ValidIDs returns the ids of the valid records, in order.
func ValidIDs(records []Record) []RecordID {
	ids := make([]RecordID, 0, len(records))
	for _, r := range records {
		if r.Valid() {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// TotalPages returns the page count for the current records.
func (s State) TotalPages() int {
	return TotalPages(len(s.Records), PageSize)
}

// PageRecords returns the records on the current page.
func (s State) PageRecords() []Record {
	return PageOf(s.Records, s.CurrentPage, PageSize)
}

// PageAllSelected reports whether the current page has at least one valid
// record and every valid record on it is selected.
func (s State) PageAllSelected() bool {
	ids := ValidIDs(s.PageRecords())
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if !s.Selected.Has(id) {
			return false
		}
	}
	return true
}

// Stats summarizes the dataset.
type Stats struct {
	Total    int `json:"total"`
	Valid    int `json:"valid"`
	Invalid  int `json:"invalid"`
	Selected int `json:"selected"`
}

// Stats counts records by validity and selection.
func (s State) Stats() Stats {
	st := Stats{Total: len(s.Records), Selected: len(s.Selected)}
	for _, r := range s.Records {
		if r.Valid() {
			st.Valid++
		}
	}
	st.Invalid = st.Total - st.Valid
	return st
}
