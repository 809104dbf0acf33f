package patient

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/YHOUDAJ/oncomanager-morocco/internal/model"
)

const dateLayout = "2006-01-02"

const bloodTypeRule = "oneof=A_POSITIVE A_NEGATIVE B_POSITIVE B_NEGATIVE AB_POSITIVE AB_NEGATIVE O_POSITIVE O_NEGATIVE"

var nationalIDPattern = regexp.MustCompile(`^[A-Z]{1,2}[0-9]{5,7}$`)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("national_id", func(fl validator.FieldLevel) bool {
		return nationalIDPattern.MatchString(fl.Field().String())
	})
	return v
}

// validateCreate checks a full candidate record and returns either the
// normalized patient or the complete field error map. All violated
// fields are reported together, never just the first.
func validateCreate(now time.Time, req *model.CreatePatientRequest) (*model.Patient, map[string][]string) {
	errs := map[string][]string{}
	p := &model.Patient{}

	p.LastName = strings.TrimSpace(req.LastName)
	if validate.Var(p.LastName, "required,min=2") != nil {
		addFieldError(errs, "last_name", "must be at least 2 characters")
	}

	p.FirstName = strings.TrimSpace(req.FirstName)
	if validate.Var(p.FirstName, "required,min=2") != nil {
		addFieldError(errs, "first_name", "must be at least 2 characters")
	}

	if req.BirthDate == "" {
		addFieldError(errs, "birth_date", "is required")
	} else if t, ok := parseBirthDate(now, req.BirthDate, errs); ok {
		p.BirthDate = t
	}

	if validate.Var(req.Sex, "required,oneof=MALE FEMALE") != nil {
		addFieldError(errs, "sex", "must be MALE or FEMALE")
	} else {
		p.Sex = model.Sex(req.Sex)
	}

	if nid := strings.TrimSpace(req.NationalID); nid != "" {
		if validate.Var(nid, "national_id") != nil {
			addFieldError(errs, "national_id", "invalid national ID format (e.g. BE123456)")
		} else {
			p.NationalID = &nid
		}
	}

	p.Phone = strings.TrimSpace(req.Phone)
	if validate.Var(p.Phone, "required,min=10") != nil {
		addFieldError(errs, "phone", "must be at least 10 characters")
	}

	if email := strings.TrimSpace(req.Email); email != "" {
		if validate.Var(email, "email") != nil {
			addFieldError(errs, "email", "must be a valid email address")
		} else {
			p.Email = &email
		}
	}

	if req.BloodType != "" {
		if validate.Var(req.BloodType, bloodTypeRule) != nil {
			addFieldError(errs, "blood_type", "must be a valid blood type")
		} else {
			bt := model.BloodType(req.BloodType)
			p.BloodType = &bt
		}
	}

	if req.CancerDiscoveryDate != "" {
		if t, err := time.Parse(dateLayout, req.CancerDiscoveryDate); err != nil {
			addFieldError(errs, "cancer_discovery_date", "must be a valid date (YYYY-MM-DD)")
		} else {
			p.CancerDiscoveryDate = &t
		}
	}

	p.SecondaryPhone = optionalText(req.SecondaryPhone)
	p.Address = optionalText(req.Address)
	p.City = optionalText(req.City)
	p.NationalInsuranceNumber = optionalText(req.NationalInsuranceNumber)
	p.InsurerName = optionalText(req.InsurerName)
	p.InsurerPolicyNumber = optionalText(req.InsurerPolicyNumber)
	p.Allergies = optionalText(req.Allergies)
	p.MedicalHistory = optionalText(req.MedicalHistory)
	p.FamilyHistory = optionalText(req.FamilyHistory)
	p.PrimaryCarePhysician = optionalText(req.PrimaryCarePhysician)
	p.PrimaryDiagnosis = optionalText(req.PrimaryDiagnosis)
	p.Stage = optionalText(req.Stage)
	p.HistologicalType = optionalText(req.HistologicalType)

	if len(errs) > 0 {
		return nil, errs
	}
	return p, nil
}

// applyUpdate validates the partial field set and merges it into p.
// Every field is optional; a present field follows the same rules as
// on create. Returns the full error map when anything is violated, in
// which case p must be discarded.
func applyUpdate(now time.Time, p *model.Patient, req *model.UpdatePatientRequest) map[string][]string {
	errs := map[string][]string{}

	if req.LastName != nil {
		v := strings.TrimSpace(*req.LastName)
		if validate.Var(v, "required,min=2") != nil {
			addFieldError(errs, "last_name", "must be at least 2 characters")
		} else {
			p.LastName = v
		}
	}

	if req.FirstName != nil {
		v := strings.TrimSpace(*req.FirstName)
		if validate.Var(v, "required,min=2") != nil {
			addFieldError(errs, "first_name", "must be at least 2 characters")
		} else {
			p.FirstName = v
		}
	}

	if req.BirthDate != nil {
		if t, ok := parseBirthDate(now, *req.BirthDate, errs); ok {
			p.BirthDate = t
		}
	}

	if req.Sex != nil {
		if validate.Var(*req.Sex, "required,oneof=MALE FEMALE") != nil {
			addFieldError(errs, "sex", "must be MALE or FEMALE")
		} else {
			p.Sex = model.Sex(*req.Sex)
		}
	}

	if req.NationalID != nil {
		nid := strings.TrimSpace(*req.NationalID)
		if nid == "" {
			p.NationalID = nil
		} else if validate.Var(nid, "national_id") != nil {
			addFieldError(errs, "national_id", "invalid national ID format (e.g. BE123456)")
		} else {
			p.NationalID = &nid
		}
	}

	if req.Phone != nil {
		v := strings.TrimSpace(*req.Phone)
		if validate.Var(v, "required,min=10") != nil {
			addFieldError(errs, "phone", "must be at least 10 characters")
		} else {
			p.Phone = v
		}
	}

	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email == "" {
			p.Email = nil
		} else if validate.Var(email, "email") != nil {
			addFieldError(errs, "email", "must be a valid email address")
		} else {
			p.Email = &email
		}
	}

	if req.BloodType != nil {
		if *req.BloodType == "" {
			p.BloodType = nil
		} else if validate.Var(*req.BloodType, bloodTypeRule) != nil {
			addFieldError(errs, "blood_type", "must be a valid blood type")
		} else {
			bt := model.BloodType(*req.BloodType)
			p.BloodType = &bt
		}
	}

	if req.CancerDiscoveryDate != nil {
		if *req.CancerDiscoveryDate == "" {
			p.CancerDiscoveryDate = nil
		} else if t, err := time.Parse(dateLayout, *req.CancerDiscoveryDate); err != nil {
			addFieldError(errs, "cancer_discovery_date", "must be a valid date (YYYY-MM-DD)")
		} else {
			p.CancerDiscoveryDate = &t
		}
	}

	mergeOptionalText(req.SecondaryPhone, &p.SecondaryPhone)
	mergeOptionalText(req.Address, &p.Address)
	mergeOptionalText(req.City, &p.City)
	mergeOptionalText(req.NationalInsuranceNumber, &p.NationalInsuranceNumber)
	mergeOptionalText(req.InsurerName, &p.InsurerName)
	mergeOptionalText(req.InsurerPolicyNumber, &p.InsurerPolicyNumber)
	mergeOptionalText(req.Allergies, &p.Allergies)
	mergeOptionalText(req.MedicalHistory, &p.MedicalHistory)
	mergeOptionalText(req.FamilyHistory, &p.FamilyHistory)
	mergeOptionalText(req.PrimaryCarePhysician, &p.PrimaryCarePhysician)
	mergeOptionalText(req.PrimaryDiagnosis, &p.PrimaryDiagnosis)
	mergeOptionalText(req.Stage, &p.Stage)
	mergeOptionalText(req.HistologicalType, &p.HistologicalType)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func parseBirthDate(now time.Time, raw string, errs map[string][]string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		addFieldError(errs, "birth_date", "must be a valid date (YYYY-MM-DD)")
		return time.Time{}, false
	}
	if !t.Before(now) {
		addFieldError(errs, "birth_date", "must be in the past")
		return time.Time{}, false
	}
	return t, true
}

func addFieldError(errs map[string][]string, field, message string) {
	errs[field] = append(errs[field], message)
}

// optionalText trims the value and treats an empty result as absent.
func optionalText(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func mergeOptionalText(src *string, dst **string) {
	if src == nil {
		return
	}
	*dst = optionalText(*src)
}
