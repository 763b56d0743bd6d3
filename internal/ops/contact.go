package ops

import (
	"context"
)

// ContactInput contains parameters for the Contact operation.
type ContactInput struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ContactOutput reports delivery.
type ContactOutput struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// Contact records the visitor's address and forwards their message to the owner.
func Contact(ctx context.Context, d *Deps, input ContactInput) (*ContactOutput, error) {
	entry, err := d.Contact.Contact(ctx, input.Email, input.Message)
	if err != nil {
		return nil, err
	}
	out := &ContactOutput{Status: "success", Message: "Email sent successfully"}
	if entry != nil {
		out.ID = entry.ID
	}
	return out, nil
}
