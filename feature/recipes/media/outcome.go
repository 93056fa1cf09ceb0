package media

import (
	rerrors "recipe-manager/core/errors"
	"recipe-manager/feature/recipes/models"
)

// Rejection reports a media item that was not saved.
type Rejection struct {
	MediaID int               `json:"mediaId"`
	Title   string            `json:"title"`
	Code    rerrors.ErrorCode `json:"code"`
	Message string            `json:"message"`

	err error
}

// SaveOutcome reports a media batch item by item.
type SaveOutcome struct {
	Saved    int         `json:"saved"`
	Rejected []Rejection `json:"rejected,omitempty"`
}

// OK reports whether no item was rejected.
func (o SaveOutcome) OK() bool {
	return len(o.Rejected) == 0
}

// Err returns the error of the first rejected item, or nil.
func (o SaveOutcome) Err() error {
	if o.OK() {
		return nil
	}
	return o.Rejected[0].err
}

func (o *SaveOutcome) reject(m *models.Media, err error) {
	o.Rejected = append(o.Rejected, Rejection{
		MediaID: m.ID,
		Title:   m.Title,
		Code:    rerrors.CodeOf(err),
		Message: err.Error(),
		err:     err,
	})
}
