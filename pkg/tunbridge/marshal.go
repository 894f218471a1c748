package tunbridge

import "sync/atomic"

// ownedText is engine text awaiting its single copy-and-release. take is the
// only way to read it, so the buffer cannot be read after release or released
// twice.
type ownedText struct {
	eng   Engine
	text  Text
	taken atomic.Bool
}

func own(eng Engine, t Text) *ownedText {
	return &ownedText{eng: eng, text: t}
}

// take copies the text into Go memory and then releases the engine buffer. A
// null text yields ResultNullResponse and nothing is released.
func (o *ownedText) take() (string, error) {
	if !o.taken.CompareAndSwap(false, true) {
		return "", errTextConsumed
	}
	if o.text.IsNull() {
		return ResultNullResponse, nil
	}
	s := o.eng.ReadText(o.text)
	o.eng.ReleaseText(o.text)
	o.text = Text{}
	return s, nil
}
