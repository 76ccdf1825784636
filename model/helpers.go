package model

import v2 "github.com/solidtype/kernel/vec/v2"

func v2XY(x, y float64) v2.Vec { return v2.Vec{X: x, Y: y} }
