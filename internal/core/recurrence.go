package core

// DetectRecurring returns the obligation keys that qualify as fixed:
// pairs of (description, exact amount) seen in more than one distinct
// calendar month across history and candidates together. Counting
// distinct months rather than raw occurrences keeps several one-off
// payments inside a single month from being flagged, while a charge that
// repeats in just two months is flagged from its second occurrence.
//
// Records with an unknown date or a zero amount never participate.
// Matching is exact on the trimmed description; statement lines that
// embed reference numbers defeat it and are deliberately not normalized
// away (merging distinct obligations is the worse failure mode).
func DetectRecurring(history, candidates []TransactionRecord) map[ObligationKey]struct{} {
	months := make(map[ObligationKey]map[MonthBucket]struct{})

	collect := func(records []TransactionRecord) {
		for _, r := range records {
			if !r.Countable() {
				continue
			}
			key := r.Key()
			if months[key] == nil {
				months[key] = make(map[MonthBucket]struct{})
			}
			months[key][r.Date.Bucket()] = struct{}{}
		}
	}
	collect(history)
	collect(candidates)

	fixed := make(map[ObligationKey]struct{})
	for key, buckets := range months {
		if len(buckets) > 1 {
			fixed[key] = struct{}{}
		}
	}
	return fixed
}

// ApplyFixedFlags sets IsFixed on every record whose key is in the fixed
// set and reports how many records were newly flagged. Flags are only
// ever raised here; an already-fixed record stays fixed.
func ApplyFixedFlags(records []TransactionRecord, fixed map[ObligationKey]struct{}) int {
	flagged := 0
	for i := range records {
		if records[i].IsFixed {
			continue
		}
		if _, ok := fixed[records[i].Key()]; ok {
			records[i].IsFixed = true
			flagged++
		}
	}
	return flagged
}
