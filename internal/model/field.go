package model

// Field names a slot of the shared telemetry model. The name doubles as
// the channel name on the external publish side and the field column of
// the recording log.
type Field string

const (
	FieldIBIs        Field = "ibis_buffer"
	FieldMeanHRV     Field = "mean_hrv"
	FieldAddresses   Field = "addresses"
	FieldPacerRate   Field = "pacer_rate"
	FieldHRVTarget   Field = "hrv_target"
	FieldBiofeedback Field = "biofeedback"
	FieldConnection  Field = "connection_state"

	// Bus-only fields: delivered to subscribers but never stored.
	FieldAnnotation Field = "annotation"
	FieldPacer      Field = "pacer"
	FieldStatus     Field = "status"
)

// RecorderFields is the update set a session recording captures.
func RecorderFields() []Field {
	return []Field{
		FieldIBIs,
		FieldMeanHRV,
		FieldAddresses,
		FieldHRVTarget,
		FieldAnnotation,
	}
}

// PublisherFields is the update set pushed to the external channel.
func PublisherFields() []Field {
	return []Field{
		FieldIBIs,
		FieldMeanHRV,
		FieldAddresses,
		FieldPacerRate,
		FieldHRVTarget,
		FieldBiofeedback,
	}
}

// ConnectionState tracks the sample source lifecycle.
type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Scanning
	Connecting
	Connected
)

func (s ConnectionState) String() string {
	switch s {
	case Scanning:
		return "scanning"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}
