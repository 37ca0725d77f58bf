package micaps

import "fmt"

// MICAPS 数据类别
type DataKind int

const (
	KindUnknown DataKind = iota
	KindMicaps1          // 地面全要素填图
	KindMicaps2          // 高空全要素填图
	KindMicaps3          // 通用填图/离散点
	KindMicaps4          // 格点
	KindMicaps7          // 台风路径
	KindMicaps11         // 格点矢量 U/V
	KindMicaps13         // 卫星图像
	KindMicaps120        // 空气质量
	KindMicaps131        // SWAN雷达拼图
	KindMDFS             // MICAPS4 二进制
)

var kindNames = map[DataKind]string{
	KindUnknown:   "Unknown",
	KindMicaps1:   "MICAPS_1",
	KindMicaps2:   "MICAPS_2",
	KindMicaps3:   "MICAPS_3",
	KindMicaps4:   "MICAPS_4",
	KindMicaps7:   "MICAPS_7",
	KindMicaps11:  "MICAPS_11",
	KindMicaps13:  "MICAPS_13",
	KindMicaps120: "MICAPS_120",
	KindMicaps131: "MICAPS_131",
	KindMDFS:      "MICAPS_MDFS",
}

func (k DataKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("DataKind(%d)", int(k))
}

// 是否为规则格点
func (k DataKind) IsGrid() bool {
	switch k {
	case KindMicaps4, KindMicaps11, KindMicaps13, KindMicaps131:
		return true
	}
	return false
}
