package services

import (
	"net/http"

	"github.com/pratik-mahalle/d9sync/internal/domain/account"
	"github.com/pratik-mahalle/d9sync/pkg/client"
)

// ClassifyResponse turns the answer to a registry write into a tagged
// outcome. status is the HTTP status of the response and err the error the
// registry returned with it, if any.
func ClassifyResponse(op account.Operation, status int, err error) account.Outcome {
	out := account.Outcome{StatusCode: status}
	if apiErr, ok := client.AsAPIError(err); ok {
		out.Body = apiErr.Body
	}

	switch status {
	case op.SuccessStatus():
		out.Kind = account.OutcomeSucceeded
	case http.StatusBadRequest:
		out.Kind = account.OutcomeRejected
		if op == account.OperationOnboard {
			out.Reason = "registry rejected the project, check the credentials and that it is not already onboarded"
		} else {
			out.Reason = "registry rejected the request"
		}
	case http.StatusUnauthorized:
		out.Kind = account.OutcomeRejected
		out.Reason = "bad registry credentials"
	case http.StatusConflict:
		out.Kind = account.OutcomeAlreadyExists
		if op == account.OperationOnboard {
			out.Reason = "project already exists in the registry"
		} else {
			out.Reason = "registry reported a conflict"
		}
	case http.StatusInternalServerError:
		out.Kind = account.OutcomeTransientFailure
		if op == account.OperationOnboard {
			out.Reason = "registry-side failure, check the dependent APIs are enabled in the project"
		} else {
			out.Reason = "registry-side failure"
		}
	default:
		out.Kind = account.OutcomeUnknown
		out.Reason = "unexpected registry response"
	}

	return out
}

// isSystemic reports whether a registry call failed without producing a
// response. Such failures abort the run instead of being classified.
func isSystemic(status int, err error) bool {
	return status == 0 && err != nil
}
