package rules

import "vetremind/internal/model"

// Defaults returns a fresh copy of the built-in rule set.
func Defaults() map[string]model.Rule {
	annual := func(label string) model.Rule { return model.Rule{Days: 365, VisibleText: label} }
	monthly := func(label string) model.Rule { return model.Rule{Days: 30, VisibleText: label} }
	perDose := func(days int, label string) model.Rule {
		return model.Rule{Days: days, UseQty: true, VisibleText: label}
	}

	return map[string]model.Rule{
		"rabies":       annual("Rabies Vaccine"),
		"dhpp":         annual("DHPPIL Vaccine"),
		"dhppil":       annual("DHPPIL Vaccine"),
		"leukemia":     annual("Leukemia Vaccine"),
		"tricat":       annual("Tricat Vaccine"),
		"kennel cough": monthly("Kennel Cough Vaccine"),
		"vaccination":  annual("Vaccine(s)"),

		"dental cat":              annual("Dental exam"),
		"dental dog":              annual("Dental exam"),
		"dental descale":          annual("Dental exam"),
		"dental package":          annual("Dental exam"),
		"dental scale and polish": annual("Dental exam"),

		"groom":      {Days: 90, VisibleText: "Groom"},
		"feliway":    perDose(60, "Feliway"),
		"dermoscent": perDose(30, "Dermoscent"),

		"cardiac ultrasound":   annual("Repeat heart scan"),
		"ultrasound - cardiac": annual("Repeat heart scan"),

		"caniverm": {Days: 90, VisibleText: "Deworming"},
		"milbem":   {Days: 90, VisibleText: "Deworming"},
		"milpro":   {Days: 90, VisibleText: "Deworming"},

		"bravecto plus": perDose(60, "Bravecto Plus"),
		"bravecto":      perDose(90, "Bravecto"),
		"frontline":     perDose(30, "Frontline"),
		"revolution":    perDose(30, "Revolution"),

		"cardisure": monthly("Cardisure"),
		"librela":   monthly("Librela"),
		"cytopoint": monthly("Cytopoint"),
		"solensia":  monthly("Solensia"),
		"cystaid":   monthly("Cystaid"),

		"samylin": perDose(30, "Samylin"),
	}
}
