package segmenter

// Part represents one length-bounded piece of a message with metadata
// tracking where it came from.
type Part struct {
	// Text contains the actual content of the part
	Text string `json:"text"`
	// Size is the length of Text measured by the segmenter's counter
	Size int `json:"size"`
	// Index is the position of the part in the message
	Index int `json:"index"`
	// StartUnit is the index of the first unit in this part
	StartUnit int `json:"start_unit"`
	// EndUnit is the index of the last unit in this part (exclusive)
	EndUnit int `json:"end_unit"`
	// HardSplit is set when the part holds a piece of a unit that was too
	// long to fit in any part on its own
	HardSplit bool `json:"hard_split,omitempty"`
}

// Texts returns the text of every part in order
func Texts(parts []Part) []string {
	ret := make([]string, len(parts))
	for idx, v := range parts {
		ret[idx] = v.Text
	}
	return ret
}
