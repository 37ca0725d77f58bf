package shape

import "math"

// 环的最少点数，不含闭合点
const MinRingPoints = 3

// 鞋带公式面积的两倍：顺时针为负，逆时针为正；闭合点可省略
func doubleArea(ring []PointD) float64 {
	n := len(ring)
	if n < 3 {
		return 0
	}
	var a float64
	for i := 0; i < n; i++ {
		p, q := ring[(i+n-1)%n], ring[i]
		a += (q.Y - p.Y) * (q.X + p.X)
	}
	return a
}

// y轴向上坐标系下是否顺时针
func IsClockwise(ring []PointD) bool {
	return doubleArea(ring) < 0
}

func RingArea(ring []PointD) float64 {
	return math.Abs(doubleArea(ring)) / 2
}

func copyRing(ring []PointD) []PointD {
	return append([]PointD(nil), ring...)
}

func reverseRing(ring []PointD) {
	for i, j := 0, len(ring)-1; i < j; i, j = i+1, j-1 {
		ring[i], ring[j] = ring[j], ring[i]
	}
}

func orientedCopy(ring []PointD, clockwise bool) []PointD {
	c := copyRing(ring)
	if IsClockwise(c) != clockwise {
		reverseRing(c)
	}
	return c
}

func isClosed(ring []PointD) bool {
	return len(ring) > 1 && ring[0] == ring[len(ring)-1]
}

// 校验parts：首项为0，严格递增，每段至少minLen个点
func validateParts(parts []int, n, minLen int) error {
	if len(parts) == 0 {
		return &InvariantError{Reason: "empty parts index", Index: 0}
	}
	if parts[0] != 0 {
		return &InvariantError{Reason: "parts[0] must be 0", Index: 0}
	}
	for i := range parts {
		end := n
		if i+1 < len(parts) {
			end = parts[i+1]
			if end <= parts[i] {
				return &InvariantError{Reason: "parts not strictly increasing", Index: i + 1}
			}
		}
		if end > n {
			return &InvariantError{Reason: "part offset beyond point count", Index: i + 1}
		}
		if end-parts[i] < minLen {
			return &InvariantError{Reason: "part has too few points", Index: i}
		}
	}
	return nil
}

func splitParts(points []PointD, parts []int) [][]PointD {
	out := make([][]PointD, len(parts))
	for i, start := range parts {
		end := len(points)
		if i+1 < len(parts) {
			end = parts[i+1]
		}
		out[i] = copyRing(points[start:end])
	}
	return out
}
