package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/oasforge/oasforge/arazzo"
	"github.com/oasforge/oasforge/converter"
	"github.com/oasforge/oasforge/resolver"
)

// specInput is the structured POST payload: a URL to fetch, inline content,
// or both (the URL then only serves as the base for relative references).
// Requests may also post the raw document itself instead of this envelope.
type specInput struct {
	OasURL  string `json:"oasUrl"`
	OasBody string `json:"oasBody"`
}

func contentTypeFor(format resolver.SourceFormat) string {
	if format == resolver.SourceFormatJSON {
		return "application/json"
	}
	return "application/yaml"
}

// specFromQuery loads the document named by the mandatory oasUrl parameter.
func (s *Server) specFromQuery(c *gin.Context) ([]byte, string, bool) {
	oasURL := strings.TrimSpace(c.Query("oasUrl"))
	if oasURL == "" {
		writeProblem(c, NewBadRequest("", "query parameter 'oasUrl' is required",
			InvalidParam{Name: "oasUrl", Reason: "required"}))
		return nil, "", false
	}
	data, err := s.fetcher.Fetch(c.Request.Context(), oasURL)
	if err != nil {
		s.logger.Warn("upstream fetch failed", "url", oasURL, "error", err)
		writeProblem(c, problemFromError(err, oasURL))
		return nil, "", false
	}
	return data, oasURL, true
}

// specFromBody reads a POST payload: a specInput envelope when the body is a
// JSON object carrying oasUrl/oasBody, otherwise the body is the document.
func (s *Server) specFromBody(c *gin.Context) ([]byte, string, bool) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, resolver.MaxDocumentSize+1))
	if err != nil {
		writeProblem(c, NewBadRequest("", "cannot read request body"))
		return nil, "", false
	}
	if int64(len(body)) > resolver.MaxDocumentSize {
		writeProblem(c, NewBadRequest("", "request body too large"))
		return nil, "", false
	}
	if strings.TrimSpace(string(body)) == "" {
		writeProblem(c, NewBadRequest("", "request body is required"))
		return nil, "", false
	}

	var in specInput
	if json.Unmarshal(body, &in) == nil && (in.OasURL != "" || in.OasBody != "") {
		if in.OasBody != "" {
			return []byte(in.OasBody), in.OasURL, true
		}
		data, err := s.fetcher.Fetch(c.Request.Context(), in.OasURL)
		if err != nil {
			s.logger.Warn("upstream fetch failed", "url", in.OasURL, "error", err)
			writeProblem(c, problemFromError(err, in.OasURL))
			return nil, "", false
		}
		return data, in.OasURL, true
	}
	return body, "", true
}

func (s *Server) dereferenceGET(c *gin.Context) {
	data, sourceURL, ok := s.specFromQuery(c)
	if !ok {
		return
	}
	s.dereference(c, data, sourceURL)
}

func (s *Server) dereferencePOST(c *gin.Context) {
	data, sourceURL, ok := s.specFromBody(c)
	if !ok {
		return
	}
	s.dereference(c, data, sourceURL)
}

func (s *Server) dereference(c *gin.Context, data []byte, sourceURL string) {
	result, err := s.res.Resolve(c.Request.Context(), data, sourceURL)
	if err != nil {
		s.logger.Warn("dereference failed", "source", sourceURL, "error", err)
		writeProblem(c, problemFromError(err, sourceURL))
		return
	}

	encoded, err := resolver.EncodeDocument(resolver.Decycle(result.Document), result.Format)
	if err != nil {
		writeProblem(c, NewInternalServerError(err.Error()))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+result.Format.Ext()+`"`)
	c.Data(http.StatusOK, contentTypeFor(result.Format), encoded)
}

func (s *Server) convertGET(c *gin.Context) {
	data, sourceURL, ok := s.specFromQuery(c)
	if !ok {
		return
	}
	s.convert(c, data, sourceURL)
}

func (s *Server) convertPOST(c *gin.Context) {
	data, sourceURL, ok := s.specFromBody(c)
	if !ok {
		return
	}
	s.convert(c, data, sourceURL)
}

func (s *Server) convert(c *gin.Context, data []byte, sourceURL string) {
	result, err := converter.Convert(data)
	if err != nil {
		s.logger.Warn("conversion failed", "source", sourceURL, "error", err)
		writeProblem(c, problemFromError(err, sourceURL))
		return
	}

	encoded, err := resolver.EncodeDocument(result.Document, result.Format)
	if err != nil {
		writeProblem(c, NewInternalServerError(err.Error()))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+result.Format.Ext()+`"`)
	c.Data(http.StatusOK, contentTypeFor(result.Format), encoded)
}

// arazzoInput mirrors specInput for Arazzo documents, plus an output filter.
type arazzoInput struct {
	ArazzoURL  string `json:"arazzoUrl"`
	ArazzoBody string `json:"arazzoBody"`
	Output     string `json:"output"` // markdown | mermaid | both (default)
}

func (s *Server) arazzoVisualize(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, resolver.MaxDocumentSize+1))
	if err != nil {
		writeProblem(c, NewBadRequest("", "cannot read request body"))
		return
	}
	if strings.TrimSpace(string(body)) == "" {
		writeProblem(c, NewBadRequest("", "request body is required"))
		return
	}

	spec := body
	output := ""
	var in arazzoInput
	if json.Unmarshal(body, &in) == nil && (in.ArazzoURL != "" || in.ArazzoBody != "") {
		output = in.Output
		if in.ArazzoBody != "" {
			spec = []byte(in.ArazzoBody)
		} else {
			spec, err = s.fetcher.Fetch(c.Request.Context(), in.ArazzoURL)
			if err != nil {
				s.logger.Warn("upstream fetch failed", "url", in.ArazzoURL, "error", err)
				writeProblem(c, problemFromError(err, in.ArazzoURL))
				return
			}
		}
	}

	result, err := arazzo.Visualize(spec)
	if err != nil {
		s.logger.Warn("arazzo visualization failed", "error", err)
		writeProblem(c, problemFromError(err, in.ArazzoURL))
		return
	}

	switch output {
	case "markdown":
		result.Mermaid = ""
	case "mermaid":
		result.Markdown = ""
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "apiVersion": s.cfg.APIVersion})
}
