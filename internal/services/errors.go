package services

import "errors"

var (
	// ErrInvalidRequest is returned when the generation query holds no keyword
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUpstreamDispatch is returned when no upstream stream could be opened
	ErrUpstreamDispatch = errors.New("upstream dispatch failed")
	// ErrUpstreamParse marks a single undecodable upstream event line
	ErrUpstreamParse = errors.New("upstream parse error")
	// ErrUpstreamStream marks a keyword stream that failed mid-flight
	ErrUpstreamStream = errors.New("upstream stream error")
	// ErrPublish marks a failed CMS publish
	ErrPublish = errors.New("publish failed")
	// ErrSettingsPersist marks a settings store write failure
	ErrSettingsPersist = errors.New("failed to persist settings")
)
