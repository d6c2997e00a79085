package errors

import "errors"

var ErrEventNotFound = errors.New("event not found")
var ErrInsufficientInventory = errors.New("not enough seats available")
var ErrInvalidContact = errors.New("contact email is invalid")
var ErrPaymentNotConfirmed = errors.New("payment was not confirmed")
var ErrTranscriptionFailed = errors.New("voice note transcription failed")
var ErrDeliveryFailed = errors.New("notification delivery failed")
