package handlers

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"travelChronicle/internal/config"
	"travelChronicle/internal/logger"
	"travelChronicle/internal/service"
)

type Handlers struct {
	PostService  service.PostService
	ImageService service.ImageService
	StatsService service.StatsService
	Cfg          *config.Config
	Validate     *validator.Validate
	logger       logger.Logger
}

func NewHandlers(service *service.Service, config *config.Config, log logger.Logger) *Handlers {
	return &Handlers{
		PostService:  service.Post,
		ImageService: service.Image,
		StatsService: service.Stats,
		Cfg:          config,
		Validate:     NewValidator(),
		logger:       log.WithComponent("Handlers"),
	}
}

// NewValidator returns a validator that reports fields by their JSON names
// and knows the notblank and imagedataurl tags used by models.PostInput.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("imagedataurl", func(fl validator.FieldLevel) bool {
		return isImageDataURL(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// isImageDataURL accepts only base64 data URLs with an image/* media type.
func isImageDataURL(s string) bool {
	mediaType, _, err := service.DecodeDataURL(s)
	return err == nil && strings.HasPrefix(mediaType, "image/")
}
