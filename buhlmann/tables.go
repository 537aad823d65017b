// Package buhlmann implements the Bühlmann ZH-L16 decompression model with
// Gradient Factors (GF). It follows the same compartment-table layout as the
// source ZH-L16 listing, generalised to take an explicit environment and
// gas-switching deco plan rather than the single-gas, fixed-atmosphere model
// of the original.
//
// Sources of information used for the Bühlmann ZH-L16 algorithm:
//
//	http://www.lizardland.co.uk/DIYDeco.html
//	https://github.com/eianlei/pydplan/blob/master/pydplan_buhlmann.py
//	https://github.com/AquaBSD/libbuhlmann/tree/master/src
//	https://scholars.unh.edu/cgi/viewcontent.cgi?article=1511&context=thesis
//	http://www.diveresearch.org/download/Publicaties/Haldane%20en%20bellen%202006.pdf
//	https://wrobell.dcmod.org/decotengu/model.html
package buhlmann

// CompartmentCount is the number of tissue compartments in each ZH-L16
// table.
const CompartmentCount = 16

// CompartCoefs holds one compartment's half-times and M-value coefficients
// for both nitrogen and helium.
type CompartCoefs struct {
	N    int
	N2Ht float64
	N2A  float64
	N2B  float64
	HeHt float64
	HeA  float64
	HeB  float64
}

// TableSet names a published coefficient table.
type TableSet int

const (
	ZHL16A TableSet = iota
	ZHL16B
	ZHL16C
)

func (ts TableSet) String() string {
	return [...]string{"ZH-L16A", "ZH-L16B", "ZH-L16C"}[ts]
}

// Tables holds, for each TableSet, the 16 compartments' coefficients in
// compartment order. ZH16A_TISSUES, ZH16B_TISSUES and ZH16C_TISSUES below
// are the spec's required public names for these same tables.
var Tables = [3][CompartmentCount]CompartCoefs{
	{
		{N: 1, N2Ht: 4.0, N2A: 1.2599, N2B: 0.5050, HeHt: 1.5, HeA: 1.7435, HeB: 0.1911},
		{N: 2, N2Ht: 8.0, N2A: 1.0000, N2B: 0.6514, HeHt: 3.0, HeA: 1.3838, HeB: 0.4295},
		{N: 3, N2Ht: 12.5, N2A: 0.8618, N2B: 0.7222, HeHt: 4.7, HeA: 1.1925, HeB: 0.5446},
		{N: 4, N2Ht: 18.5, N2A: 0.7562, N2B: 0.7725, HeHt: 7.0, HeA: 1.0465, HeB: 0.6265},
		{N: 5, N2Ht: 27.0, N2A: 0.6667, N2B: 0.8125, HeHt: 10.2, HeA: 0.9226, HeB: 0.6917},
		{N: 6, N2Ht: 38.3, N2A: 0.5933, N2B: 0.8434, HeHt: 14.5, HeA: 0.8211, HeB: 0.7420},
		{N: 7, N2Ht: 54.3, N2A: 0.5282, N2B: 0.8693, HeHt: 20.5, HeA: 0.7309, HeB: 0.7841},
		{N: 8, N2Ht: 77.0, N2A: 0.4701, N2B: 0.8910, HeHt: 29.1, HeA: 0.6506, HeB: 0.8195},
		{N: 9, N2Ht: 109.0, N2A: 0.4187, N2B: 0.9092, HeHt: 41.1, HeA: 0.5794, HeB: 0.8491},
		{N: 10, N2Ht: 146.0, N2A: 0.3798, N2B: 0.9222, HeHt: 55.1, HeA: 0.5256, HeB: 0.8703},
		{N: 11, N2Ht: 187.0, N2A: 0.3497, N2B: 0.9319, HeHt: 70.6, HeA: 0.4840, HeB: 0.8860},
		{N: 12, N2Ht: 239.0, N2A: 0.3223, N2B: 0.9403, HeHt: 90.2, HeA: 0.4460, HeB: 0.8997},
		{N: 13, N2Ht: 305.0, N2A: 0.2971, N2B: 0.9477, HeHt: 115.1, HeA: 0.4112, HeB: 0.9118},
		{N: 14, N2Ht: 390.0, N2A: 0.2737, N2B: 0.9544, HeHt: 147.2, HeA: 0.3788, HeB: 0.9226},
		{N: 15, N2Ht: 498.0, N2A: 0.2523, N2B: 0.9602, HeHt: 187.9, HeA: 0.3492, HeB: 0.9321},
		{N: 16, N2Ht: 635.0, N2A: 0.2327, N2B: 0.9653, HeHt: 239.6, HeA: 0.3220, HeB: 0.9404},
	}, {
		{N: 1, N2Ht: 4.0, N2A: 1.2599, N2B: 0.5240, HeHt: 1.51, HeA: 1.6189, HeB: 0.4245},
		{N: 2, N2Ht: 8.0, N2A: 1.0000, N2B: 0.6514, HeHt: 3.02, HeA: 1.3830, HeB: 0.5747},
		{N: 3, N2Ht: 12.5, N2A: 0.8618, N2B: 0.7222, HeHt: 4.72, HeA: 1.1919, HeB: 0.6527},
		{N: 4, N2Ht: 18.5, N2A: 0.7562, N2B: 0.7825, HeHt: 6.99, HeA: 1.0458, HeB: 0.7223},
		{N: 5, N2Ht: 27.0, N2A: 0.6667, N2B: 0.8126, HeHt: 10.21, HeA: 0.9220, HeB: 0.7582},
		{N: 6, N2Ht: 38.3, N2A: 0.5505, N2B: 0.8434, HeHt: 14.48, HeA: 0.8205, HeB: 0.7957},
		{N: 7, N2Ht: 54.3, N2A: 0.4858, N2B: 0.8693, HeHt: 20.53, HeA: 0.7305, HeB: 0.8279},
		{N: 8, N2Ht: 77.0, N2A: 0.4443, N2B: 0.8910, HeHt: 29.11, HeA: 0.6502, HeB: 0.8553},
		{N: 9, N2Ht: 109.0, N2A: 0.4187, N2B: 0.9092, HeHt: 41.20, HeA: 0.5950, HeB: 0.8757},
		{N: 10, N2Ht: 146.0, N2A: 0.3798, N2B: 0.9222, HeHt: 55.19, HeA: 0.5545, HeB: 0.8903},
		{N: 11, N2Ht: 187.0, N2A: 0.3497, N2B: 0.9319, HeHt: 70.69, HeA: 0.5333, HeB: 0.8997},
		{N: 12, N2Ht: 239.0, N2A: 0.3223, N2B: 0.9403, HeHt: 90.34, HeA: 0.5189, HeB: 0.9073},
		{N: 13, N2Ht: 305.0, N2A: 0.2828, N2B: 0.9477, HeHt: 115.29, HeA: 0.5181, HeB: 0.9122},
		{N: 14, N2Ht: 390.0, N2A: 0.2737, N2B: 0.9544, HeHt: 147.42, HeA: 0.5176, HeB: 0.9171},
		{N: 15, N2Ht: 498.0, N2A: 0.2523, N2B: 0.9602, HeHt: 188.24, HeA: 0.5172, HeB: 0.9217},
		{N: 16, N2Ht: 635.0, N2A: 0.2327, N2B: 0.9653, HeHt: 240.03, HeA: 0.5119, HeB: 0.9267},
	}, {
		{N: 1, N2Ht: 4.0, N2A: 1.2599, N2B: 0.5240, HeHt: 1.51, HeA: 1.6189, HeB: 0.4245},
		{N: 2, N2Ht: 8.0, N2A: 1.0000, N2B: 0.6514, HeHt: 3.02, HeA: 1.3830, HeB: 0.5747},
		{N: 3, N2Ht: 12.5, N2A: 0.8618, N2B: 0.7222, HeHt: 4.72, HeA: 1.1919, HeB: 0.6527},
		{N: 4, N2Ht: 18.5, N2A: 0.7562, N2B: 0.7825, HeHt: 6.99, HeA: 1.0458, HeB: 0.7223},
		{N: 5, N2Ht: 27.0, N2A: 0.6667, N2B: 0.8126, HeHt: 10.21, HeA: 0.9220, HeB: 0.7582},
		{N: 6, N2Ht: 38.3, N2A: 0.5600, N2B: 0.8434, HeHt: 14.48, HeA: 0.8205, HeB: 0.7957},
		{N: 7, N2Ht: 54.3, N2A: 0.4947, N2B: 0.8693, HeHt: 20.53, HeA: 0.7305, HeB: 0.8279},
		{N: 8, N2Ht: 77.0, N2A: 0.4500, N2B: 0.8910, HeHt: 29.11, HeA: 0.6502, HeB: 0.8553},
		{N: 9, N2Ht: 109.0, N2A: 0.4187, N2B: 0.9092, HeHt: 41.20, HeA: 0.5950, HeB: 0.8757},
		{N: 10, N2Ht: 146.0, N2A: 0.3798, N2B: 0.9222, HeHt: 55.19, HeA: 0.5545, HeB: 0.8903},
		{N: 11, N2Ht: 187.0, N2A: 0.3497, N2B: 0.9319, HeHt: 70.69, HeA: 0.5333, HeB: 0.8997},
		{N: 12, N2Ht: 239.0, N2A: 0.3223, N2B: 0.9403, HeHt: 90.34, HeA: 0.5189, HeB: 0.9073},
		{N: 13, N2Ht: 305.0, N2A: 0.2850, N2B: 0.9477, HeHt: 115.29, HeA: 0.5181, HeB: 0.9122},
		{N: 14, N2Ht: 390.0, N2A: 0.2737, N2B: 0.9544, HeHt: 147.42, HeA: 0.5176, HeB: 0.9171},
		{N: 15, N2Ht: 498.0, N2A: 0.2523, N2B: 0.9602, HeHt: 188.24, HeA: 0.5172, HeB: 0.9217},
		{N: 16, N2Ht: 635.0, N2A: 0.2327, N2B: 0.9653, HeHt: 240.03, HeA: 0.5119, HeB: 0.9267},
	},
}

// ZH16A_TISSUES, ZH16B_TISSUES and ZH16C_TISSUES are the spec-mandated
// public names for the three coefficient tables.
var (
	ZH16A_TISSUES = Tables[ZHL16A]
	ZH16B_TISSUES = Tables[ZHL16B]
	ZH16C_TISSUES = Tables[ZHL16C]
)
