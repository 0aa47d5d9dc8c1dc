package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"backoffice/internal/common"
	"backoffice/internal/services"

	"github.com/labstack/echo/v4"
)

// bindJSON binds the request body and runs the registered validator.
func bindJSON(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		var herr *echo.HTTPError
		if errors.As(err, &herr) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
		}
		return err
	}
	return c.Validate(dst)
}

func pathID(c echo.Context) (int64, error) {
	return common.ParseID(c.Param("id"), "id")
}

// pagination reads optional ?limit and ?offset. Missing limit means all rows.
func pagination(c echo.Context) (int, int, error) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return 0, 0, err
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		return 0, 0, err
	}
	return common.ValidatePaginationParams(limit, offset)
}

func queryInt(c echo.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, common.NewValidationError(name, name+" must be an integer")
	}
	return n, nil
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

// formString returns a pointer to the submitted value, or nil when the
// field is absent from the form.
func formString(c echo.Context, name string) (*string, error) {
	params, err := c.FormParams()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid form data")
	}
	values, ok := params[name]
	if !ok || len(values) == 0 {
		return nil, nil
	}
	v := values[0]
	return &v, nil
}

// formUpload opens an optional file field. The returned closer is never nil.
func formUpload(c echo.Context, name string) (*services.Upload, func(), error) {
	noop := func() {}
	header, err := c.FormFile(name)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, echo.NewHTTPError(http.StatusBadRequest, "Invalid form data")
	}
	file, err := header.Open()
	if err != nil {
		return nil, noop, err
	}
	return uploadFrom(header, file), func() { _ = file.Close() }, nil
}

func uploadFrom(header *multipart.FileHeader, r io.Reader) *services.Upload {
	contentType := header.Header.Get(echo.HeaderContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &services.Upload{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Reader:      r,
	}
}

func currentUserID(c echo.Context) (int64, error) {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "Authentication credentials were not provided.")
	}
	return userID, nil
}

type detailResponse struct {
	Detail string `json:"detail"`
}
