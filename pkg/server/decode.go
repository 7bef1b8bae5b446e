package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin/binding"
	"github.com/shouni/gemini-design-proxy/pkg/domain"
)

// readBody は上限付きで本文を読み込みます。上限を超えた場合は InvalidRequest です。
func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, domain.ErrInvalidRequest("Request body too large", err)
		}
		return nil, domain.ErrInvalidRequest("Could not read request body", err)
	}
	return body, nil
}

// decodeOperation は type を先に読み、対応するバリアントとして本文全体を検証します。
func decodeOperation(body []byte) (domain.Operation, error) {
	var env domain.Envelope
	if err := binding.JSON.BindBody(body, &env); err != nil {
		return nil, domain.ErrInvalidRequest("Missing or invalid request type", err)
	}

	switch env.Type {
	case domain.OperationDesign:
		return bindVariant[domain.DesignRequest](body)
	case domain.OperationStyle:
		return bindVariant[domain.StyleRequest](body)
	case domain.OperationImage:
		return bindVariant[domain.ImageRequest](body)
	case domain.OperationChat:
		return bindVariant[domain.ChatRequest](body)
	default:
		return nil, domain.ErrInvalidRequest("Unknown type", fmt.Errorf("type %q", env.Type))
	}
}

func bindVariant[T domain.Operation](body []byte) (domain.Operation, error) {
	var req T
	if err := binding.JSON.BindBody(body, &req); err != nil {
		return nil, domain.ErrInvalidRequest(fmt.Sprintf("Invalid %s request", req.Type()), err)
	}
	return req, nil
}
