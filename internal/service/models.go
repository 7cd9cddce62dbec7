package service

import "github.com/deppfellow/request-tour/internal/model"

type ModelService struct {
	messages map[model.ModelName]string
}

func NewModelService() *ModelService {
	return &ModelService{messages: map[model.ModelName]string{
		model.ModelAlexNet: "This is the AlexNet model.",
		model.ModelLeNet:   "This is the LeCNN model.",
		model.ModelResNet:  "This is the ResNet model.",
	}}
}

// Describe returns the fixed message of a model. Names outside the enum
// never reach it.
func (s *ModelService) Describe(name model.ModelName) model.ModelResponse {
	return model.ModelResponse{ModelName: name, Message: s.messages[name]}
}
