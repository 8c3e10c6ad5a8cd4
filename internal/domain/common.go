package domain

// Coordinate - географическая координата точки
type Coordinate struct {
	Lat float64 `json:"lat" db:"lat"`
	Lon float64 `json:"lon" db:"lon"`
}

// IsValid проверяет, что координата лежит в допустимых пределах
func (c Coordinate) IsValid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Zone - круговая географическая зона для фильтрации точек сбора
type Zone struct {
	Center   Coordinate `json:"center"`
	RadiusKm float64    `json:"radius_km"`
}

// IsValid проверяет валидность зоны (центр + положительный радиус)
func (z Zone) IsValid() bool {
	return z.Center.IsValid() && z.RadiusKm > 0
}
