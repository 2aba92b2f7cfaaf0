package jobs

// ValidatePayload performs minimal validation on decoded payloads before a
// worker runs them.
func ValidatePayload(t JobType, payload any) error {
	if !t.IsValid() {
		return ErrInvalidJobType
	}

	switch t {
	case JobThumbnail:
		var p ThumbnailPayload
		switch v := payload.(type) {
		case ThumbnailPayload:
			p = v
		case *ThumbnailPayload:
			p = *v
		default:
			return ErrPayloadTypeMismatch
		}
		if p.FileID == 0 || p.OwnerID == 0 {
			return ErrInvalidJobPayload
		}
		return nil

	case JobWelcome:
		var p WelcomePayload
		switch v := payload.(type) {
		case WelcomePayload:
			p = v
		case *WelcomePayload:
			p = *v
		default:
			return ErrPayloadTypeMismatch
		}
		if p.UserID == 0 {
			return ErrInvalidJobPayload
		}
		return nil

	default:
		return ErrInvalidJobType
	}
}
