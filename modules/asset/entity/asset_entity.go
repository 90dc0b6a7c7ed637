package entity

type Slot string

const (
	SlotPoster Slot = "poster"
	SlotLayout Slot = "layout"
	SlotAgenda Slot = "agenda"
)

var Slots = []Slot{SlotPoster, SlotLayout, SlotAgenda}

const (
	ContentTypePNG  = "image/png"
	ContentTypeJPEG = "image/jpeg"
	ContentTypePDF  = "application/pdf"
)

var allowedContentTypes = map[Slot][]string{
	SlotPoster: {ContentTypePNG, ContentTypeJPEG},
	SlotLayout: {ContentTypePNG, ContentTypeJPEG, ContentTypePDF},
	SlotAgenda: {ContentTypePNG, ContentTypeJPEG, ContentTypePDF},
}

func ParseSlot(s string) (Slot, bool) {
	for _, slot := range Slots {
		if string(slot) == s {
			return slot, true
		}
	}
	return "", false
}

func (s Slot) Accepts(contentType string) bool {
	for _, ct := range allowedContentTypes[s] {
		if ct == contentType {
			return true
		}
	}
	return false
}

func (s Slot) AllowedContentTypes() []string {
	return allowedContentTypes[s]
}

// Asset is the metadata of the blob currently occupying a slot.
type Asset struct {
	Slot        Slot   `db:"slot" json:"slot"`
	Filename    string `db:"filename" json:"filename"`
	ContentType string `db:"content_type" json:"content_type"`
	Size        int64  `db:"size" json:"size"`
	BlobKey     string `db:"blob_key" json:"-"`
	UpdatedAt   string `db:"updated_at" json:"updated_at"`
}
