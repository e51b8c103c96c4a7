package v1

import "strings"

// RoomID 房间标识
//
// 除 PedPong 和 DuckPond 外均为路线房间，路线房间通常形如 {transport}_{qualifier}_{name...}
type RoomID string

const (
	// PedPong 中途停靠站
	PedPong RoomID = "ped_pong"
	// DuckPond 鸭子池塘，不计时
	DuckPond RoomID = "duck_pond"
)

// NewRouteRoomID 创建路线房间标识
func NewRouteRoomID(transport TransportType, qualifier, name string) RoomID {
	return RoomID(strings.Join([]string{string(transport), qualifier, name}, "_"))
}

// IsRoute 是否路线房间
func (id RoomID) IsRoute() bool {
	return id != PedPong && id != DuckPond
}

// Transport 获取路线房间的交通方式
func (id RoomID) Transport() (TransportType, bool) {
	parts := strings.Split(string(id), "_")
	if !id.IsRoute() || len(parts) <= 2 {
		return "", false
	}
	return TransportType(parts[0]), true
}

// DisplayName 获取展示名
func (id RoomID) DisplayName() string {
	switch id {
	case PedPong:
		return "Ped Pong"
	case DuckPond:
		return "Duck Pond"
	}
	parts := strings.Split(string(id), "_")
	if len(parts) > 2 {
		return parts[0] + " - " + strings.Join(parts[2:], "_")
	}
	return string(id)
}

// TransportType 交通方式
type TransportType string

const (
	// TransportBike 摩托车
	TransportBike TransportType = "bike"
	// TransportCar 出租车
	TransportCar TransportType = "car"
	// TransportLocation 双条车
	TransportLocation TransportType = "location"
	// TransportBus 电动小巴
	TransportBus TransportType = "bus"
)

// AllTransportTypes 返回所有交通方式，按选择器中的顺序排列
func AllTransportTypes() []TransportType {
	return []TransportType{TransportBike, TransportCar, TransportLocation, TransportBus}
}

// Valid 是否已知的交通方式
func (t TransportType) Valid() bool {
	switch t {
	case TransportBike, TransportCar, TransportLocation, TransportBus:
		return true
	}
	return false
}

// Label 获取选择器上的标签
func (t TransportType) Label() string {
	switch t {
	case TransportBike:
		return "มอเตอร์ไซค์"
	case TransportCar:
		return "แท็กซี่"
	case TransportLocation:
		return "สองแถว"
	case TransportBus:
		return "Ev มินิบัส"
	}
	return string(t)
}

// Route 路线
type Route struct {
	// 交通方式
	Transport TransportType `json:"transport" yaml:"transport"`
	// 路线房间
	Room RoomID `json:"room" yaml:"room"`
}

// DefaultRoutes 默认路线表，每种交通方式一条
func DefaultRoutes() []Route {
	return []Route{
		{Transport: TransportBike, Room: NewRouteRoomID(TransportBike, "moto", "old_city")},
		{Transport: TransportCar, Room: NewRouteRoomID(TransportCar, "taxi", "airport_link")},
		{Transport: TransportLocation, Room: NewRouteRoomID(TransportLocation, "songthaew", "night_bazaar")},
		{Transport: TransportBus, Room: NewRouteRoomID(TransportBus, "ev", "central_station")},
	}
}

// FindRoute 在路线表中查找指定交通方式的第一条路线
func FindRoute(routes []Route, t TransportType) (Route, bool) {
	for _, r := range routes {
		if r.Transport == t {
			return r, true
		}
	}
	return Route{}, false
}
