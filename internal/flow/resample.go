// internal/flow/resample.go
package flow

import "fmt"

// Stretch resamples values to a longer (or equal) length by linear
// interpolation between neighbours, keeping both endpoints.
//
// Some lengths cannot be reached evenly: [1, 2, 3] stretches cleanly to 5
// ([1, 1.5, 2, 2.5, 3]) but not to 6. In that case the values are first
// interpolated to (len-1)*(target-len)+1 buckets, or to the next evenly
// reachable length above the target when that is too short, and the result
// is Reduced to the target length.
//
// The mean is kept exactly only for linear inputs. Interpolating between
// neighbours while keeping both endpoints weights the ends less than the
// middle, so in general the mean drifts: [5, 0, 7, 3] stretched to 100 sums
// to 367 rather than 375.
//
// The optional modifier is applied to every element of the final result.
func Stretch(values []float64, targetLength int, modifier func(float64) float64) ([]float64, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: cannot stretch an empty slice", ErrInvalidResample)
	}
	if targetLength < len(values) {
		return nil, fmt.Errorf("%w: target %d is shorter than source %d", ErrInvalidResample, targetLength, len(values))
	}

	var result []float64
	if len(values) == 1 {
		result = make([]float64, targetLength)
		for i := range result {
			result[i] = values[0]
		}
	} else {
		var err error
		result, err = interpolate(values, targetLength)
		if err != nil {
			return nil, err
		}
	}

	if modifier != nil {
		for i, v := range result {
			result[i] = modifier(v)
		}
	}
	return result, nil
}

// interpolate implements Stretch for two or more values.
func interpolate(values []float64, targetLength int) ([]float64, error) {
	n := len(values)
	tempLength := targetLength
	if (tempLength-n)%(n-1) != 0 {
		tempLength = (n-1)*(tempLength-n) + 1
		if tempLength <= targetLength {
			// Smallest k*(n-1)+1 strictly above the target.
			tempLength = ((targetLength-1)/(n-1)+1)*(n-1) + 1
		}
	}

	result := make([]float64, tempLength)
	stepLength := int(float64(tempLength-2)/float64(n-1)) + 1
	countToNextStep := stepLength
	fillIndex := 0
	for i := range result {
		bottom := values[fillIndex]
		top := bottom
		if fillIndex+1 < n {
			top = values[fillIndex+1]
		}

		completion := float64(stepLength-countToNextStep) / float64(stepLength)
		result[i] = bottom*(1-completion) + top*completion

		countToNextStep--
		if countToNextStep == 0 {
			countToNextStep = stepLength
			fillIndex++
		}
	}

	if tempLength != targetLength {
		return Reduce(result, targetLength)
	}
	return result, nil
}

// Reduce resamples values to a strictly shorter length. Each source element is
// spread over the output slots it overlaps, proportional to the overlap, so
// sum(out) == sum(values) * targetLength / len(values).
func Reduce(values []float64, targetLength int) ([]float64, error) {
	if targetLength <= 0 || len(values) <= targetLength {
		return nil, fmt.Errorf("%w: cannot reduce %d values to %d", ErrInvalidResample, len(values), targetLength)
	}

	multiplier := float64(targetLength) / float64(len(values))
	result := make([]float64, targetLength)
	for i, v := range values {
		index := float64(i) * multiplier
		until := float64(i+1) * multiplier
		indexInt, untilInt := int(index), int(until)

		if indexInt != untilInt {
			result[indexInt] += v * (1 - (index - float64(indexInt)))
			if untilInt < targetLength {
				result[untilInt] += v * (until - float64(untilInt))
			}
			continue
		}
		result[indexInt] += v * (until - index)
	}
	return result, nil
}
