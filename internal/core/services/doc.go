// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The question pipeline is built from small pieces that are usable on their
// own: TranscriptService, Index, PromptAssembler and AnswerGenerator.
package services
