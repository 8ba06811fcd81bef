package cli

import (
	"errors"
	"sort"
	"strings"

	"github.com/dmitrijs2005/gymadmin/internal/client/client"
	"github.com/dmitrijs2005/gymadmin/internal/client/listview"
	"github.com/dmitrijs2005/gymadmin/internal/client/models"
	"github.com/dmitrijs2005/gymadmin/internal/client/services"
)

// describeError turns an error into the banner shown to the operator.
func describeError(err error) string {
	var ve *models.ValidationError
	var se *client.ServerError

	switch {
	case errors.As(err, &ve):
		fields := make([]string, 0, len(ve.Fields))
		for f := range ve.Fields {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		lines := make([]string, 0, len(fields)+1)
		lines = append(lines, "Please fix:")
		for _, f := range fields {
			lines = append(lines, "  "+f+": "+ve.Fields[f])
		}
		return strings.Join(lines, "\n")
	case errors.Is(err, services.ErrInvalidCredentials):
		return "Login failed: invalid email or password."
	case errors.Is(err, client.ErrUnauthorized):
		return "Session expired or not logged in. Type 'login'."
	case errors.Is(err, client.ErrTimeout):
		return "The server took too long to answer. Type 'retry'."
	case errors.Is(err, client.ErrUnavailable):
		return "Cannot reach the server. Type 'retry'."
	case errors.As(err, &se):
		return "Error: " + se.Message
	case errors.Is(err, listview.ErrNotConfirmed):
		return "Cancelled."
	case errors.Is(err, services.ErrUnsupported):
		return "This list does not support that operation."
	default:
		return "Error: " + err.Error()
	}
}
