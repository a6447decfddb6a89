package spec

import "errors"

var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrSkillNotFound      = errors.New("skill not found")
	ErrSkillAlreadyExists = errors.New("skill already exists")

	// ErrActionParse is returned when the assistant's response text does not
	// contain a recognized action envelope.
	ErrActionParse = errors.New("action parse failed")

	// ErrInvalidAction is returned when a parsed action fails validation
	// (unknown verb, or a "do" action without its action field).
	ErrInvalidAction = errors.New("invalid action")

	// ErrInvalidModelConfig is returned when a call site was handed a config
	// missing base_url, api_key, or model.
	ErrInvalidModelConfig = errors.New("invalid model config")

	// ErrNoModelContent is returned when the model responded without usable
	// assistant content.
	ErrNoModelContent = errors.New("no model content")

	// ErrInvalidDefinition is returned for malformed user skill or agent
	// definition documents.
	ErrInvalidDefinition = errors.New("invalid definition")

	// ErrInvalidEffect is returned under strict effect validation when a skill
	// produced effects violating their schema.
	ErrInvalidEffect = errors.New("invalid effect")
)
