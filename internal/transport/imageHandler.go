package transport

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/user/hebrew-imagegen/internal/entity"
	"github.com/user/hebrew-imagegen/internal/pkg/overlay"
	"github.com/user/hebrew-imagegen/internal/service"
)

const (
	defaultAspectRatio = "16:9"
	defaultFontSize    = 60
	defaultFillColor   = "#FFFFFF"
	defaultStrokeColor = "#000000"
	defaultStrokeWidth = 2
	defaultAlignment   = string(entity.AlignRight)
)

func (h *ImageHandler) GenerateImage(c *gin.Context) {
	prompt := c.PostForm("prompt")
	aspectRatio := c.DefaultPostForm("aspect_ratio", defaultAspectRatio)

	var upload []byte
	if fileHeader, err := c.FormFile("image"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read uploaded image"})
			return
		}
		defer file.Close()

		upload, err = io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read uploaded image"})
			return
		}
	}

	out, err := h.service.Generate(c.Request.Context(), service.GenerateInput{
		Prompt:      prompt,
		AspectRatio: aspectRatio,
		Upload:      upload,
	})
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entity.GenerateResponse{
		Success:            true,
		ImageID:            out.ID,
		ImageURL:           fmt.Sprintf("/api/image/%s", out.ID),
		ImageBase64:        dataURL(out.Image),
		Width:              out.Width,
		Height:             out.Height,
		SuggestedPositions: out.Positions,
	})
}

func (h *ImageHandler) AddText(c *gin.Context) {
	imageID := c.PostForm("image_id")
	if imageID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image_id is required"})
		return
	}

	style, err := textStyleFromForm(c)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	out, err := h.service.AddText(c.Request.Context(), imageID, style)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entity.AddTextResponse{
		Success:     true,
		ImageID:     out.ID,
		ImageURL:    fmt.Sprintf("/api/image/%s", out.ID),
		ImageBase64: dataURL(out.Image),
	})
}

func (h *ImageHandler) SuggestTexts(c *gin.Context) {
	imageID := c.PostForm("image_id")
	description := c.PostForm("product_description")

	texts, err := h.service.SuggestTexts(c.Request.Context(), imageID, description)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entity.SuggestTextsResponse{Success: true, Texts: texts})
}

func (h *ImageHandler) SuggestPositions(c *gin.Context) {
	width, errW := strconv.Atoi(c.Query("width"))
	height, errH := strconv.Atoi(c.Query("height"))
	if errW != nil || errH != nil || width <= 0 || height <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "width and height must be positive integers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"positions": overlay.SuggestPositions(width, height),
	})
}

func (h *ImageHandler) GetImage(c *gin.Context) {
	data, err := h.service.GetImage(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, "image/png", data)
}

func (h *ImageHandler) DownloadImage(c *gin.Context) {
	id := c.Param("id")

	data, err := h.service.GetImage(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=product_image_%s.png", id))
	c.Data(http.StatusOK, "image/png", data)
}

// textStyleFromForm normalizes the add-text form fields into a TextStyle,
// parsing colors and alignment at the boundary.
func textStyleFromForm(c *gin.Context) (entity.TextStyle, error) {
	var style entity.TextStyle

	x, err := strconv.Atoi(c.DefaultPostForm("x", "0"))
	if err != nil {
		return style, fmt.Errorf("%w: x", entity.ErrInvalidPosition)
	}
	y, err := strconv.Atoi(c.DefaultPostForm("y", "0"))
	if err != nil {
		return style, fmt.Errorf("%w: y", entity.ErrInvalidPosition)
	}

	fontSize, err := strconv.Atoi(c.DefaultPostForm("font_size", strconv.Itoa(defaultFontSize)))
	if err != nil || fontSize <= 0 {
		return style, entity.ErrInvalidFontSize
	}

	strokeWidth, err := strconv.Atoi(c.DefaultPostForm("stroke_width", strconv.Itoa(defaultStrokeWidth)))
	if err != nil || strokeWidth < 0 {
		return style, entity.ErrInvalidStrokeWidth
	}

	fill, err := overlay.ParseColor(c.DefaultPostForm("color", defaultFillColor))
	if err != nil {
		return style, err
	}
	stroke, err := overlay.ParseColor(c.DefaultPostForm("stroke_color", defaultStrokeColor))
	if err != nil {
		return style, err
	}

	align, err := entity.ParseAlignment(c.DefaultPostForm("align", defaultAlignment))
	if err != nil {
		return style, err
	}

	bold, _ := strconv.ParseBool(c.DefaultPostForm("bold", "false"))

	return entity.TextStyle{
		Text:        c.PostForm("text"),
		X:           x,
		Y:           y,
		FontFamily:  c.PostForm("font_family"),
		FontSize:    fontSize,
		Bold:        bold,
		Fill:        fill,
		Stroke:      stroke,
		StrokeWidth: strokeWidth,
		Align:       align,
	}, nil
}

func dataURL(img []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(img)
}
