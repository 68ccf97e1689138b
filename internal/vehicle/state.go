package vehicle

// ChargeState is the lifecycle position of the current charge session.
type ChargeState int

const (
	ChargeIdle ChargeState = iota
	ChargeActive
	ChargeDone
	ChargeInterrupted
)

func (s ChargeState) String() string {
	switch s {
	case ChargeActive:
		return "charging"
	case ChargeDone:
		return "done"
	case ChargeInterrupted:
		return "interrupted"
	}
	return "idle"
}

// ChargeSubstate qualifies the state for the charge event consumers.
type ChargeSubstate int

const (
	SubstateNone ChargeSubstate = iota
	SubstateByRequest
	SubstateInterrupted
)

func (s ChargeSubstate) String() string {
	switch s {
	case SubstateByRequest:
		return "by_request"
	case SubstateInterrupted:
		return "interrupted"
	}
	return "none"
}

// ChargeMode is carried for consumers that distinguish charge programs.
// The i-MiEV only ever reports the standard program; quick charging is
// indicated separately via the QuickCharging flag and the limit sentinel.
type ChargeMode int

const ModeStandard ChargeMode = 0

func (ChargeMode) String() string { return "standard" }

// Notification is a fire-and-forget signal to the host's alerting
// subsystem. It carries no payload; delivery, retry and debouncing belong
// to the subscriber.
type Notification int

const (
	NotifyStatusChanged Notification = iota
	NotifyChargeEvent
	NotifyEnvironmentChanged
)

func (n Notification) String() string {
	switch n {
	case NotifyChargeEvent:
		return "charge_event"
	case NotifyEnvironmentChanged:
		return "environment_changed"
	}
	return "status_changed"
}

// Notifier receives core notifications. Implementations must not block.
type Notifier interface {
	Notify(Notification)
}

// VehicleState is the normalized record this core maintains. It is a
// plain value struct: Snapshot hands out copies, so a consumer never
// observes a partially processed tick.
//
// Distances are in the configured display unit; the odometer is kept in
// tenths of that unit. Temperatures are °C, voltage V, current A.
type VehicleState struct {
	SOC            int // state of charge, 0-100 %
	DisplayedRange int
	IdealRange     int
	LineVoltage    int
	ChargeCurrent  int
	Speed          int // negative while reversing
	Odometer       int // tenths of the display unit
	PackTemp       int
	MotorTemp      int
	ChargerTemp    int

	Parked        bool
	On            bool
	Awake         bool
	CoolingActive bool

	ChargePortOpen bool
	PilotPresent   bool
	Charging       bool
	Charging12V    bool
	QuickCharging  bool

	ChargeMode     ChargeMode
	ChargeState    ChargeState
	ChargeSubstate ChargeSubstate
	ChargeLimit    int // amps; the quick-charge sentinel while quick charging
	ChargeDuration int // minutes in the current session
	ChargeEnergy   int // whole kWh delivered this session

	SOCAlertLimit int // SOC below which the host should raise an alert

	ParkTime int // Seconds value when the car was parked, 0 while moving
	Seconds  int // monotonic seconds since the monitor started
}
