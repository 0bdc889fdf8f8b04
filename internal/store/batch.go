package store

// MaxBatchOps is the backend ceiling on operations per committed batch.
// Callers commit and start a new batch once Len() reaches it.
const MaxBatchOps = 500

type opKind int

const (
	opDeleteEvent opKind = iota
	opDeletePricePoint
)

type op struct {
	kind    opKind
	eventID string
	date    string
}

// Batch accumulates delete operations for a single atomic commit. It is the
// only mutable state shared across the pipeline's write path and is not safe
// for concurrent use.
type Batch struct {
	ops  []op
	size int
}

func NewBatch() *Batch {
	return &Batch{}
}

// DeleteEvent queues removal of an event row and every price row keyed by
// the same event id. Counts as two operations against the batch ceiling.
func (b *Batch) DeleteEvent(eventID string) {
	b.ops = append(b.ops, op{kind: opDeleteEvent, eventID: eventID})
	b.size += 2
}

// DeletePricePoint queues removal of one (event_id, date) price row.
func (b *Batch) DeletePricePoint(eventID, date string) {
	b.ops = append(b.ops, op{kind: opDeletePricePoint, eventID: eventID, date: date})
	b.size++
}

func (b *Batch) Len() int {
	return b.size
}
