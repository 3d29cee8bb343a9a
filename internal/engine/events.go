package engine

import "errors"

// emit adds an audit event to the transaction receipt; kv is a flat
// list of key, value pairs
func emit(st State, eventType string, kv ...string) error {
	if len(kv)%2 != 0 {
		return errors.New("event attributes must come in pairs: " + eventType)
	}

	attributes := make([]Attribute, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		attributes = append(attributes, Attribute{Key: kv[i], Value: kv[i+1]})
	}

	if err := st.AddEvent(eventType, attributes, nil); err != nil {
		return errors.New("failed to add the event " + eventType + ": " + err.Error())
	}
	return nil
}
