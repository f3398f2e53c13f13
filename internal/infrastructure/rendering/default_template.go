package rendering

// defaultInvoiceTemplate is the built-in fallback used when the external
// template asset cannot be loaded. Minimal but complete: practitioner
// block, title line, amount, date, patient name.
const defaultInvoiceTemplate = `<!DOCTYPE html>
<html lang="fr">
<head>
    <meta charset="UTF-8">
    <title>Reçu d'honoraires - {{.InvoiceNumber}}</title>
    <style>
        body { font-family: Arial; padding: 20px; }
        .header { margin-bottom: 40px; }
        .title { text-align: center; font-size: 18pt; margin: 40px 0; }
    </style>
</head>
<body>
    <div class="header">
        <h1>{{.PractitionerName}}</h1>
        <p>{{.Address}}</p>
        <p>{{.ProfessionalTitle}}</p>
    </div>
    <div class="title">RE&Ccedil;U D'HONORAIRES</div>
    <p>Montant: {{.Amount}} &euro;</p>
    <p>Date: {{.ConsultationDate}}</p>
    <p>Patient: {{.PatientName}}</p>
</body>
</html>
`
