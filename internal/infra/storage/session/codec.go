package session

import (
	"encoding/json"
	"fmt"

	"github.com/m04kA/SMC-ConsultationService/internal/wizard"
)

func encode(s *wizard.Session) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return data, nil
}

func decode(data []byte) (*wizard.Session, error) {
	var s wizard.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &s, nil
}

func sessionKey(id string) string {
	return fmt.Sprintf("consultation:session:%s", id)
}
