package renderer

import "errors"

var (
	ErrSceneNotDefined  = errors.New("renderer: no scene defined")
	ErrCameraNotDefined = errors.New("renderer: no camera defined")
	ErrNoSensors        = errors.New("renderer: no sensors defined")
	ErrInvalidSensor    = errors.New("renderer: invalid sensor")
	ErrInvalidOptions   = errors.New("renderer: invalid options")
)
