// internal/handlers/studio.go
package handlers

import (
	"encoding/base64"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/snehalata/aura-backend/internal/ai"
	"github.com/snehalata/aura-backend/internal/services"
	"github.com/snehalata/aura-backend/internal/utils"
)

// StudioHandler fronts every generative operation: the shopper chat,
// the creative studio, virtual try-on, and grounded search. When the
// gateway is cooling down, media operations return 429 while text
// operations degrade to their static fallbacks.
type StudioHandler struct {
	gateway        *ai.Gateway
	vendorService  *services.VendorService
	productService *services.ProductService
	storageService *services.StorageService
}

func NewStudioHandler(gateway *ai.Gateway, vendorService *services.VendorService, productService *services.ProductService, storageService *services.StorageService) *StudioHandler {
	return &StudioHandler{
		gateway:        gateway,
		vendorService:  vendorService,
		productService: productService,
		storageService: storageService,
	}
}

type inlineImageRequest struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"` // base64
}

func (r *inlineImageRequest) decode() (*ai.InlineImage, error) {
	if r == nil || r.Data == "" {
		return nil, nil
	}
	raw, err := base64.StdEncoding.DecodeString(r.Data)
	if err != nil {
		return nil, errors.New("image data must be base64 encoded")
	}
	mime := r.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return &ai.InlineImage{MIMEType: mime, Data: raw}, nil
}

func encodeImage(img *ai.InlineImage) gin.H {
	return gin.H{
		"mime_type": img.MIMEType,
		"data":      base64.StdEncoding.EncodeToString(img.Data),
	}
}

// POST /studio/chat
func (h *StudioHandler) Chat(c *gin.Context) {
	var req struct {
		Message string `json:"message" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	vendors, err := h.vendorService.ListApproved()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	catalog, err := h.productService.Catalog()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	systemContext := ai.BuildEcosystemContext(vendors, catalog)
	reply := h.gateway.ChatReply(c.Request.Context(), systemContext, req.Message)

	utils.SuccessResponse(c, gin.H{
		"reply": reply,
	})
}

// POST /studio/image
func (h *StudioHandler) GenerateImage(c *gin.Context) {
	var req struct {
		Prompt    string              `json:"prompt" validate:"required"`
		Reference *inlineImageRequest `json:"reference,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	reference, err := req.Reference.decode()
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	img, err := h.gateway.GenerateImage(c.Request.Context(), req.Prompt, reference)
	if err != nil {
		h.mediaError(c, err)
		return
	}

	h.respondWithImage(c, img)
}

// POST /studio/edit
func (h *StudioHandler) EditImage(c *gin.Context) {
	var req struct {
		Instruction string             `json:"instruction" validate:"required"`
		Image       inlineImageRequest `json:"image" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	image, err := req.Image.decode()
	if err != nil || image == nil {
		utils.BadRequestResponse(c, "Image is required", nil)
		return
	}

	img, err := h.gateway.EditImage(c.Request.Context(), req.Instruction, *image)
	if err != nil {
		h.mediaError(c, err)
		return
	}

	h.respondWithImage(c, img)
}

// POST /studio/try-on
func (h *StudioHandler) TryOn(c *gin.Context) {
	var req struct {
		Person  inlineImageRequest `json:"person" validate:"required"`
		Garment inlineImageRequest `json:"garment" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	person, err := req.Person.decode()
	if err != nil || person == nil {
		utils.BadRequestResponse(c, "Person image is required", nil)
		return
	}
	garment, err := req.Garment.decode()
	if err != nil || garment == nil {
		utils.BadRequestResponse(c, "Garment image is required", nil)
		return
	}

	img, err := h.gateway.TryOn(c.Request.Context(), *person, *garment)
	if err != nil {
		h.mediaError(c, err)
		return
	}

	h.respondWithImage(c, img)
}

// POST /studio/video
func (h *StudioHandler) GenerateVideo(c *gin.Context) {
	var req struct {
		Prompt      string `json:"prompt" validate:"required"`
		AspectRatio string `json:"aspect_ratio,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	uri, err := h.gateway.GenerateVideo(c.Request.Context(), req.Prompt, req.AspectRatio)
	if err != nil {
		h.mediaError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"video_uri": uri,
	})
}

// GET /studio/grounded?q=
func (h *StudioHandler) GroundedSearch(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		utils.BadRequestResponse(c, "Query is required", nil)
		return
	}

	result, err := h.gateway.GroundedSearch(c.Request.Context(), query)
	if err != nil {
		h.mediaError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"text":    result.Text,
		"sources": result.Sources,
	})
}

// GET /studio/status
func (h *StudioHandler) Status(c *gin.Context) {
	coolingDown, until := h.gateway.Breaker().State()
	resp := gin.H{
		"cooling_down": coolingDown,
		"interactions": h.gateway.Interactions(),
	}
	if coolingDown {
		resp["cooldown_until"] = until
	}
	utils.SuccessResponse(c, resp)
}

func (h *StudioHandler) respondWithImage(c *gin.Context, img *ai.InlineImage) {
	// Persist the render so the storefront can link it, but never fail
	// the response over a storage hiccup.
	var url string
	if upload, err := h.storageService.UploadBytes(img.Data, img.MIMEType, "studio"); err == nil {
		url = upload.URL
	}

	utils.SuccessResponse(c, gin.H{
		"image": encodeImage(img),
		"url":   url,
	})
}

func (h *StudioHandler) mediaError(c *gin.Context, err error) {
	if errors.Is(err, ai.ErrCoolingDown) {
		utils.TooManyRequestsResponse(c, "Aura Systems are cooling down. Please try again shortly.")
		return
	}
	utils.InternalErrorResponse(c, err.Error())
}
