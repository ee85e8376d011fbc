package contact

// Record is the state of the contact between the list owner and Other.
type Record[K comparable] struct {
	Other  K
	Status Status
}

// List holds the contact records of one entity. It keeps at most one record
// per Other and preserves insertion order. The zero value is ready to use.
type List[K comparable] struct {
	records []Record[K]
}

// Record registers a contact with other. A missing record is appended with
// the status derived from impulse. An Ending record is revived as Continuing,
// never as Entering. Any other existing record is left unchanged.
func (l *List[K]) Record(other K, impulse, threshold float64) {
	l.RecordStatus(other, Classify(impulse, threshold))
}

// RecordStatus is Record with an already classified status.
func (l *List[K]) RecordStatus(other K, status Status) {
	for i := range l.records {
		if l.records[i].Other != other {
			continue
		}
		if l.records[i].Status == Ending {
			l.records[i].Status = Continuing
		}
		return
	}
	l.records = append(l.records, Record[K]{Other: other, Status: status})
}

// Advance reports whether any record is Entering and ages every record in
// the same pass: Ending records are dropped, all others become Ending.
// It must be called exactly once per tick.
func (l *List[K]) Advance() bool {
	hasNew := false
	kept := l.records[:0]
	for _, rec := range l.records {
		hasNew = hasNew || rec.Status == Entering
		if rec.Status == Ending {
			continue
		}
		rec.Status = Ending
		kept = append(kept, rec)
	}
	clear(l.records[len(kept):])
	l.records = kept
	return hasNew
}

// Lookup returns the status of the record for other, if any.
func (l *List[K]) Lookup(other K) (Status, bool) {
	for _, rec := range l.records {
		if rec.Other == other {
			return rec.Status, true
		}
	}
	return 0, false
}

// Len returns the number of records.
func (l *List[K]) Len() int {
	return len(l.records)
}

// Records returns a copy of the records in insertion order.
func (l *List[K]) Records() []Record[K] {
	out := make([]Record[K], len(l.records))
	copy(out, l.records)
	return out
}

// Reset drops every record.
func (l *List[K]) Reset() {
	clear(l.records)
	l.records = l.records[:0]
}
