package domain

// CapturedImage is an image payload awaiting (or used for) prediction. It comes either from a selected file or from
// a camera snapshot.
type CapturedImage struct {
	Data      []byte
	MediaType string
	FileName  string
}

// IsEmpty is true for snapshots taken before the stream produced any frame. Such images are still accepted; the
// Prediction Service decides what to do with them.
func (c *CapturedImage) IsEmpty() bool {
	return len(c.Data) == 0
}
