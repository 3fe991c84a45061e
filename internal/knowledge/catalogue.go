package knowledge

// Specialty category names used across the catalogue. Doctor specialties
// and condition categories share this vocabulary so that textual overlap
// is meaningful.
const (
	CategoryCardiology       = "cardiology"
	CategoryPulmonology      = "pulmonology"
	CategoryGastroenterology = "gastroenterology"
	CategoryInfectious       = "infectious diseases"
	CategoryGeneral          = "general medicine"
)

func (s *Store) loadCatalogue() {
	s.Add(Condition{
		ID:          "CAR001",
		Name:        "Angina pectoris",
		Description: "Chest pain caused by reduced blood flow to the heart muscle.",
		Category:    CategoryCardiology,
		Symptoms:    []string{"oppression", "chest pain"},
		Treatments:  []string{"Trinitrine", "Aspirin"},
	}, []Medication{
		{Name: "Trinitrine", Dosage: "0.3mg", Instructions: "Under the tongue at the onset of pain", DurationDays: 30, Frequency: "As needed", Critical: true},
		{Name: "Aspirin", Dosage: "75mg", Instructions: "Take with food", DurationDays: 30, Frequency: "Once daily"},
	}, "1. Stop all effort at the first sign of pain\n"+
		"2. Take trinitrine as prescribed\n"+
		"3. Call emergency services if pain lasts more than 15 minutes\n"+
		"4. Avoid heavy meals and cold exposure\n"+
		"5. Attend the scheduled cardiology follow-up")

	s.Add(Condition{
		ID:          "CAR002",
		Name:        "Cardiac arrhythmia",
		Description: "Irregular heart rhythm, felt as palpitations or skipped beats.",
		Category:    CategoryCardiology,
		Symptoms:    []string{"palpitations", "irregular heartbeat", "dizziness"},
		Treatments:  []string{"Bisoprolol"},
	}, []Medication{
		{Name: "Bisoprolol", Dosage: "5mg", Instructions: "Take in the morning", DurationDays: 30, Frequency: "Once daily", Critical: true},
	}, "1. Avoid caffeine and stimulants\n"+
		"2. Take the beta-blocker at the same time each day\n"+
		"3. Monitor your pulse daily\n"+
		"4. Return immediately if you faint")

	s.Add(Condition{
		ID:          "CAR003",
		Name:        "Hypertension",
		Description: "Persistently elevated arterial blood pressure.",
		Category:    CategoryCardiology,
		Symptoms:    []string{"headache", "dizziness", "ringing in the ears", "blurred vision"},
		Treatments:  []string{"Amlodipine"},
	}, []Medication{
		{Name: "Amlodipine", Dosage: "10mg", Instructions: "Take in the morning with water", DurationDays: 30, Frequency: "Once daily"},
	}, "1. Reduce salt intake\n"+
		"2. Measure blood pressure twice a week\n"+
		"3. Exercise moderately 30 minutes a day\n"+
		"4. Do not stop the medication without advice")

	s.Add(Condition{
		ID:          "DIG001",
		Name:        "Gastritis",
		Description: "Inflammation of the stomach lining.",
		Category:    CategoryGastroenterology,
		Symptoms:    []string{"stomach pain", "nausea", "vomiting", "bloating", "loss of appetite"},
		Treatments:  []string{"Omeprazole"},
	}, []Medication{
		{Name: "Omeprazole", Dosage: "20mg", Instructions: "Take 30 minutes before breakfast", DurationDays: 14, Frequency: "Once daily"},
	}, "1. Avoid spicy and acidic foods\n"+
		"2. Eat small frequent meals\n"+
		"3. Avoid alcohol and anti-inflammatory drugs\n"+
		"4. Return if vomit contains blood")

	s.Add(Condition{
		ID:          "DIG002",
		Name:        "Gastroesophageal reflux",
		Description: "Backflow of stomach acid into the esophagus.",
		Category:    CategoryGastroenterology,
		Symptoms:    []string{"burning sensation", "acid taste", "regurgitation"},
		Treatments:  []string{"Esomeprazole"},
	}, []Medication{
		{Name: "Esomeprazole", Dosage: "40mg", Instructions: "Take before the evening meal", DurationDays: 28, Frequency: "Once daily"},
	}, "")

	s.Add(Condition{
		ID:          "GEN001",
		Name:        "Influenza",
		Description: "Seasonal viral infection of the airways.",
		Category:    CategoryGeneral,
		Symptoms:    []string{"high fever", "body aches", "fatigue", "dry cough", "sore throat"},
		Treatments:  []string{"Paracetamol"},
	}, []Medication{
		{Name: "Paracetamol", Dosage: "1000mg", Instructions: "Take for fever above 38.5", DurationDays: 5, Frequency: "Every 6 hours as needed"},
		{Name: "Hydration", Dosage: "Drinking water", Instructions: "Drink at least 2 liters per day", DurationDays: 7, Frequency: "Throughout the day", Critical: true},
	}, "1. Rest at home until the fever resolves\n"+
		"2. Drink plenty of fluids\n"+
		"3. Cover coughs and wash hands often\n"+
		"4. Return if breathing becomes difficult")

	s.Add(Condition{
		ID:          "GEN002",
		Name:        "Common cold",
		Description: "Mild viral infection of the upper airways.",
		Category:    CategoryGeneral,
		Symptoms:    []string{"nasal congestion", "runny nose", "sneezing", "sore throat", "mild cough"},
		Treatments:  []string{"Saline spray"},
	}, []Medication{
		{Name: "Saline nasal spray", Dosage: "2 sprays", Instructions: "In each nostril", DurationDays: 7, Frequency: "Three times daily"},
	}, "")

	s.Add(Condition{
		ID:          "GEN003",
		Name:        "Urinary tract infection",
		Description: "Bacterial infection of the lower urinary tract.",
		Category:    CategoryGeneral,
		Symptoms:    []string{"burning urination", "frequent urination", "pelvic pain", "cloudy urine"},
		Treatments:  []string{"Fosfomycin"},
	}, []Medication{
		{Name: "Fosfomycin", Dosage: "3000mg", Instructions: "Single dose dissolved in water, on an empty stomach", DurationDays: 1, Frequency: "Single dose", Critical: true},
	}, "")

	s.Add(Condition{
		ID:          "INF001",
		Name:        "Malaria",
		Description: "Parasitic infection transmitted by mosquito bite.",
		Category:    CategoryInfectious,
		Symptoms:    []string{"fever", "chills", "sweating", "headache", "fatigue", "nausea"},
		Treatments:  []string{"Artesunate", "Paracetamol"},
	}, []Medication{
		{Name: "Artesunate", Dosage: "100mg", Instructions: "Take with food at the same time each day", DurationDays: 3, Frequency: "Once daily", Critical: true},
		{Name: "Paracetamol", Dosage: "500mg", Instructions: "For fever", DurationDays: 5, Frequency: "Every 6 hours as needed"},
	}, "1. Complete the full antimalarial course even if you feel better\n"+
		"2. Sleep under a treated mosquito net\n"+
		"3. Return for a control blood test after treatment\n"+
		"4. Seek care urgently if confusion or dark urine appears")

	s.Add(Condition{
		ID:          "INF002",
		Name:        "Typhoid fever",
		Description: "Systemic bacterial infection from contaminated food or water.",
		Category:    CategoryInfectious,
		Symptoms:    []string{"high fever", "severe headache", "abdominal pain", "constipation", "weakness"},
		Treatments:  []string{"Ciprofloxacin"},
	}, []Medication{
		{Name: "Ciprofloxacin", Dosage: "500mg", Instructions: "Take away from dairy products", DurationDays: 7, Frequency: "Twice daily", Critical: true},
	}, "")

	s.Add(Condition{
		ID:          "RES001",
		Name:        "Asthma",
		Description: "Chronic inflammatory airway disease with reversible obstruction.",
		Category:    CategoryPulmonology,
		Symptoms:    []string{"difficulty breathing", "wheezing", "chest tightness", "dry cough"},
		Treatments:  []string{"Salbutamol"},
	}, []Medication{
		{Name: "Salbutamol", Dosage: "2 puffs", Instructions: "Inhale during attacks", DurationDays: 30, Frequency: "As needed", Critical: true},
	}, "1. Always carry the reliever inhaler\n"+
		"2. Identify and avoid personal triggers\n"+
		"3. Seek urgent care if the inhaler stops relieving symptoms")

	s.Add(Condition{
		ID:          "RES002",
		Name:        "Acute bronchitis",
		Description: "Inflammation of the bronchial tubes, usually viral.",
		Category:    CategoryPulmonology,
		Symptoms:    []string{"productive cough", "chest discomfort", "fatigue", "mild fever"},
		Treatments:  []string{"Carbocisteine"},
	}, []Medication{
		{Name: "Carbocisteine", Dosage: "750mg", Instructions: "Take with a large glass of water", DurationDays: 7, Frequency: "Three times daily"},
	}, "")
}
