package server

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danmuck/zplctl/internal/codec"
	"github.com/danmuck/zplctl/internal/gf"
	"github.com/danmuck/zplctl/internal/observability"
	"github.com/danmuck/zplctl/internal/raster"
)

// Request bodies are image or document uploads; keep them bounded.
const maxBodyBytes = 32 << 20

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "zpl-bridge",
			"uptime":  time.Since(s.startedAt).String(),
		})
	})
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/v1")
	v1.POST("/encode", s.handleEncode)
	v1.POST("/decode", s.handleDecode)
}

type encodeParams struct {
	format    gf.Encoding
	invert    bool
	dither    bool
	threshold uint8
	width     int
	height    int
	posX      int
	posY      int
	rotate    int
	lineBreak int
	complete  bool
}

func parseEncodeParams(c *gin.Context) (encodeParams, error) {
	p := encodeParams{
		format:    gf.EncodingHex,
		dither:    true,
		threshold: 128,
		complete:  true,
	}

	if raw := c.Query("format"); raw != "" {
		enc, err := gf.ParseEncoding(raw)
		if err != nil {
			return p, err
		}
		p.format = enc
	}
	var err error
	if p.invert, err = queryBool(c, "invert", false); err != nil {
		return p, err
	}
	if p.dither, err = queryBool(c, "dither", true); err != nil {
		return p, err
	}
	if p.complete, err = queryBool(c, "complete", true); err != nil {
		return p, err
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"width", &p.width},
		{"height", &p.height},
		{"x", &p.posX},
		{"y", &p.posY},
		{"rotate", &p.rotate},
		{"linebreak", &p.lineBreak},
	}
	for _, q := range ints {
		v, err := queryInt(c, q.name, 0)
		if err != nil {
			return p, err
		}
		*q.dst = v
	}

	threshold, err := queryInt(c, "threshold", 128)
	if err != nil {
		return p, err
	}
	if threshold < 0 || threshold > 255 {
		return p, fmt.Errorf("threshold must be within 0 to 255, got %d", threshold)
	}
	p.threshold = uint8(threshold)
	return p, nil
}

func (s *Server) handleEncode(c *gin.Context) {
	params, err := parseEncodeParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "read body: " + err.Error()})
		return
	}

	zpl, err := encodeImage(body, params)
	observability.RecordEncode(params.format.String(), err == nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(zpl))
}

func encodeImage(data []byte, params encodeParams) (string, error) {
	img, err := raster.Rasterize(data)
	if err != nil {
		return "", err
	}
	img, err = raster.Rotate(img, params.rotate)
	if err != nil {
		return "", err
	}
	img = raster.Resize(img, params.width, params.height)

	mono, err := raster.ReduceToMonochrome(img, raster.ReduceOptions{
		Dither:    params.dither,
		Threshold: params.threshold,
	})
	if err != nil {
		return "", err
	}

	return codec.Encode(mono, codec.Options{
		Encoding:  params.format,
		Invert:    params.invert,
		PosX:      params.posX,
		PosY:      params.posY,
		LineBreak: params.lineBreak,
		Wrap:      params.complete,
	})
}

type decodedFieldResponse struct {
	Index    int    `json:"index"`
	PosX     int    `json:"x"`
	PosY     int    `json:"y"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Encoding string `json:"encoding"`
	PNG      string `json:"png_base64"`
}

type decodeWarningResponse struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

func (s *Server) handleDecode(c *gin.Context) {
	lenient, err := queryBool(c, "lenient", false)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "read body: " + err.Error()})
		return
	}

	decoded, warnings := codec.Decode(string(body), codec.DecodeOptions{LenientChecksum: lenient})
	observability.RecordDecodeFields(len(decoded), len(warnings))

	fields := make([]decodedFieldResponse, 0, len(decoded))
	for _, d := range decoded {
		var buf bytes.Buffer
		if err := raster.EncodePNG(&buf, d.Bitmap); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		fields = append(fields, decodedFieldResponse{
			Index:    len(fields),
			PosX:     d.Field.PosX,
			PosY:     d.Field.PosY,
			Width:    d.Bitmap.Width(),
			Height:   d.Bitmap.Height(),
			Encoding: d.Field.Encoding.String(),
			PNG:      base64.StdEncoding.EncodeToString(buf.Bytes()),
		})
	}

	warns := make([]decodeWarningResponse, 0, len(warnings))
	for _, w := range warnings {
		warns = append(warns, decodeWarningResponse{Index: w.Index, Error: w.Err.Error()})
	}

	c.JSON(http.StatusOK, gin.H{"fields": fields, "warnings": warns})
}

func queryBool(c *gin.Context, name string, def bool) (bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def, fmt.Errorf("%s must be a boolean, got %q", name, raw)
	}
	return v, nil
}

func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	return v, nil
}
