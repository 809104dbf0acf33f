package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAgeAt(t *testing.T) {
	tests := []struct {
		name  string
		birth time.Time
		now   time.Time
		want  int
	}{
		{
			name:  "birthday today counts as completed",
			birth: date(1990, time.June, 15),
			now:   date(2020, time.June, 15),
			want:  30,
		},
		{
			name:  "one day before birthday",
			birth: date(1990, time.June, 15),
			now:   date(2020, time.June, 14),
			want:  29,
		},
		{
			name:  "one day after birthday",
			birth: date(1990, time.June, 15),
			now:   date(2020, time.June, 16),
			want:  30,
		},
		{
			name:  "earlier month same year",
			birth: date(1990, time.December, 1),
			now:   date(2020, time.January, 1),
			want:  29,
		},
		{
			name:  "leap day birth on non-leap year",
			birth: date(2000, time.February, 29),
			now:   date(2021, time.February, 28),
			want:  20,
		},
		{
			name:  "leap day birth on march first",
			birth: date(2000, time.February, 29),
			now:   date(2021, time.March, 1),
			want:  21,
		},
		{
			name:  "newborn",
			birth: date(2020, time.January, 1),
			now:   date(2020, time.June, 1),
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Patient{BirthDate: tt.birth}
			assert.Equal(t, tt.want, p.AgeAt(tt.now))
		})
	}
}

func TestSexValid(t *testing.T) {
	assert.True(t, SexMale.Valid())
	assert.True(t, SexFemale.Valid())
	assert.False(t, Sex("OTHER").Valid())
	assert.False(t, Sex("male").Valid())
	assert.False(t, Sex("").Valid())
}

func TestBloodTypeValid(t *testing.T) {
	for _, bt := range []BloodType{
		BloodTypeAPositive, BloodTypeANegative,
		BloodTypeBPositive, BloodTypeBNegative,
		BloodTypeABPositive, BloodTypeABNegative,
		BloodTypeOPositive, BloodTypeONegative,
	} {
		assert.True(t, bt.Valid(), string(bt))
	}
	assert.False(t, BloodType("A+").Valid())
	assert.False(t, BloodType("").Valid())
}
